// Package tree scans a file tree snapshot and reports every offending line of every text file.
package tree

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/core/classify"
	"github.com/m-mizutani/langaudit/pkg/core/filter"
	"github.com/m-mizutani/langaudit/pkg/core/lines"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
	"github.com/m-mizutani/langaudit/pkg/utils/safe"
	"golang.org/x/sync/errgroup"
)

type Scanner struct {
	filter      *filter.Filter
	maxFileSize int64
	workers     int
}

type Option func(*Scanner)

func WithFilter(f *filter.Filter) Option {
	return func(x *Scanner) {
		x.filter = f
	}
}

// WithMaxFileSize sets the size ceiling. Larger files are recorded as oversized, never opened.
func WithMaxFileSize(size int64) Option {
	return func(x *Scanner) {
		x.maxFileSize = size
	}
}

// WithWorkers bounds the number of files read at the same time.
func WithWorkers(n int) Option {
	return func(x *Scanner) {
		if n > 0 {
			x.workers = n
		}
	}
}

func New(options ...Option) *Scanner {
	x := &Scanner{
		filter:      filter.Default(),
		maxFileSize: types.DefaultMaxFileSize,
		workers:     types.DefaultFileWorkers,
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

// Files enumerates regular files under root that pass the filter, as slash separated paths
// relative to root. Hidden files are included, symlinks are not followed. A failure to
// read a subdirectory is yielded with its path and the walk continues. Every call walks the
// tree again.
func (x *Scanner) Files(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if err != nil {
				if p == root {
					return err
				}
				if !yield(rel, err) {
					stopped = true
					return fs.SkipAll
				}
				return nil
			}

			if d.IsDir() {
				if x.filter.ExcludedDir(rel) {
					return fs.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() || x.filter.Excluded(rel) {
				return nil
			}

			if !yield(rel, nil) {
				stopped = true
				return fs.SkipAll
			}
			return nil
		})

		if err != nil && !stopped {
			yield("", goerr.Wrap(err, "failed to walk file tree", goerr.V("root", root)))
		}
	}
}

type fileOutcome struct {
	lines   []int
	skip    *model.SkipRecord
	failure *model.ReadFailure
}

// Scan reads every file yielded by Files. Oversized and binary files are recorded as skipped
// and unreadable files as read failures; neither stops the scan. An error is returned only
// when root itself cannot be walked or ctx is done.
func (x *Scanner) Scan(ctx context.Context, root string) (*model.ScanResult, error) {
	result := model.NewScanResult()
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(x.workers)

	var walkErr error
	for rel, err := range x.Files(root) {
		if err != nil {
			if rel == "" {
				walkErr = err
				break
			}
			logging.From(ctx).Warn("failed to read path", "path", rel, "error", err)
			mu.Lock()
			result.ReadFailures = append(result.ReadFailures, model.ReadFailure{FilePath: rel, Error: err.Error()})
			mu.Unlock()
			continue
		}

		if egCtx.Err() != nil {
			break
		}

		eg.Go(func() error {
			outcome := x.scanFile(egCtx, root, rel)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case outcome.skip != nil:
				result.Skipped = append(result.Skipped, *outcome.skip)
			case outcome.failure != nil:
				result.ReadFailures = append(result.ReadFailures, *outcome.failure)
			default:
				for _, n := range outcome.lines {
					result.Add(rel, n)
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "file tree scan interrupted", goerr.V("root", root))
	}

	return result, nil
}

func (x *Scanner) scanFile(ctx context.Context, root, rel string) fileOutcome {
	path := filepath.Join(root, filepath.FromSlash(rel))
	fail := func(err error) fileOutcome {
		logging.From(ctx).Warn("failed to read file", "path", rel, "error", err)
		return fileOutcome{failure: &model.ReadFailure{FilePath: rel, Error: err.Error()}}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(err)
	}
	if info.Size() > x.maxFileSize {
		logging.From(ctx).Debug("skip oversized file", "path", rel, "size", info.Size())
		return fileOutcome{skip: &model.SkipRecord{FilePath: rel, Reason: types.SkipOversized, Size: info.Size()}}
	}

	fd, err := os.Open(path)
	if err != nil {
		return fail(err)
	}
	defer safe.Close(ctx, fd)

	br := bufio.NewReaderSize(fd, classify.SampleSize)
	sample, err := br.Peek(classify.SampleSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return fail(err)
	}
	if classify.IsBinary(sample) {
		return fileOutcome{skip: &model.SkipRecord{FilePath: rel, Reason: types.SkipBinary, Size: info.Size()}}
	}

	var out fileOutcome
	for n, err := range lines.Matching(br, classify.IsNonTargetRune) {
		if err != nil {
			return fail(err)
		}
		out.lines = append(out.lines, n)
	}
	return out
}
