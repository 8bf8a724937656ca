package usecase

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/core/branch"
	"github.com/m-mizutani/langaudit/pkg/core/filter"
	"github.com/m-mizutani/langaudit/pkg/core/history"
	"github.com/m-mizutani/langaudit/pkg/core/tree"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/errutil"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
)

// ScanLocal scans the working tree at input.Path and, when history scanning is enabled, the
// history of its active branches. Failures while scanning history are recorded in the
// report; the working tree result is kept.
func (x *UseCase) ScanLocal(ctx context.Context, input *model.ScanLocalInput) (*model.RepoReport, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	opts := input.Options

	root, err := filepath.Abs(input.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve path", goerr.V("path", input.Path))
	}

	f, err := filter.New(
		filter.WithExtensions(opts.ExcludeExtensions...),
		filter.WithPaths(opts.ExcludePaths...),
		filter.WithVendored(opts.SkipVendored),
	)
	if err != nil {
		return nil, err
	}
	scanner := tree.New(
		tree.WithFilter(f),
		tree.WithMaxFileSize(opts.MaxFileSize),
		tree.WithWorkers(opts.FileWorkers),
	)

	report := &model.RepoReport{
		Name:      input.Name,
		URL:       input.URL,
		Path:      root,
		StartedAt: logging.CtxTime(ctx),
	}
	if report.Name == "" {
		report.Name = filepath.Base(root)
	}
	ctx = logging.WithAttrs(ctx, "repo", report.Name)
	logger := logging.From(ctx)

	logger.Info("scanning working tree", slog.String("path", root))
	wt, err := scanner.Scan(ctx, root)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan working tree", goerr.V("path", root))
	}
	report.WorkingTree = wt
	logger.Info("working tree scanned",
		slog.Int("files", len(wt.Findings)),
		slog.Int("skipped", len(wt.Skipped)),
		slog.Int("read_failures", len(wt.ReadFailures)),
	)

	if !opts.History {
		return report, nil
	}

	if err := x.scanHistory(ctx, report, root, f, scanner, opts); err != nil {
		report.Failures = append(report.Failures,
			errutil.Failure(ctx, types.FailureProject, report.Name, report.URL, err))
	}

	return report, nil
}

func (x *UseCase) scanHistory(ctx context.Context, report *model.RepoReport, root string, f *filter.Filter, scanner *tree.Scanner, opts model.ScanOptions) error {
	logger := logging.From(ctx)
	git := x.clients.Git()

	head, err := git.CurrentBranch(ctx, root)
	if err != nil {
		return goerr.Wrap(err, "failed to read current branch")
	}
	report.Branch = strings.TrimPrefix(head, "refs/heads/")

	branches, err := branch.ListActive(ctx, git, root, branch.Options{
		Recency: opts.Recency,
		Filter:  opts.FilterBranches,
	})
	if err != nil {
		return err
	}
	active := branch.Active(branches)
	logger.Info("branches discovered",
		slog.Int("total", len(branches)),
		slog.Int("active", len(active)),
	)

	strategy, err := history.New(opts.Strategy, git, history.Options{
		Filter:  f,
		Scanner: scanner,
		Recency: opts.Recency,
	})
	if err != nil {
		return err
	}

	report.Branches = history.Run(ctx, strategy, root, active, opts.BatchWidth)
	for _, b := range report.Branches {
		if b.Error != "" {
			report.Failures = append(report.Failures, model.UnitFailure{
				Kind:  types.FailureBranch,
				Name:  string(b.Branch.Name),
				URL:   report.URL,
				Error: b.Error,
			})
		}
	}

	if !strategy.ConcurrentSafe() {
		if err := git.Checkout(ctx, root, head); err != nil {
			logger.Warn("failed to restore working tree", slog.String("ref", head), slog.Any("error", err))
		}
	}

	return nil
}
