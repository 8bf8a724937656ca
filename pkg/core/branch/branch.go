// Package branch lists the branches of a repository and decides which of them are recent
// enough to have their history scanned.
package branch

import (
	"context"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/core/lines"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Git is the part of the git transport used for branch discovery.
type Git interface {
	ListBranchRefs(ctx context.Context, repoDir string) (io.ReadCloser, error)
	LastCommitDate(ctx context.Context, repoDir, ref string) (string, error)
}

type Options struct {
	// Recency is the width of the activity window ending now.
	Recency time.Duration
	// Filter enables the recency test. When false every branch is active.
	Filter bool
}

const (
	headsPrefix   = "refs/heads/"
	remotesPrefix = "refs/remotes/"
)

// ParseRefs reads "<hash>\t<refname>" lines. Local and remote-tracking branches are accepted;
// symbolic HEAD refs and malformed lines are ignored. A branch present both locally and as a
// remote-tracking ref is returned once with the remote ref. The result is sorted by name.
func ParseRefs(r io.Reader) ([]model.Branch, error) {
	byName := make(map[types.BranchName]model.Branch)
	var order []types.BranchName

	for line, err := range lines.All(r) {
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read branch refs")
		}

		hash, ref, ok := strings.Cut(strings.TrimSpace(string(line)), "\t")
		if !ok || hash == "" {
			continue
		}

		name, remote, ok := branchName(ref)
		if !ok {
			continue
		}

		b := model.Branch{Name: name, Ref: ref, Hash: types.CommitHash(hash)}
		prev, exists := byName[name]
		switch {
		case !exists:
			order = append(order, name)
			byName[name] = b
		case remote && !strings.HasPrefix(prev.Ref, remotesPrefix):
			byName[name] = b
		}
	}

	slices.Sort(order)
	branches := make([]model.Branch, 0, len(order))
	for _, name := range order {
		branches = append(branches, byName[name])
	}
	return branches, nil
}

func branchName(ref string) (types.BranchName, bool, bool) {
	switch {
	case strings.HasPrefix(ref, headsPrefix):
		name := strings.TrimPrefix(ref, headsPrefix)
		if name == "" {
			return "", false, false
		}
		return types.BranchName(name), false, true

	case strings.HasPrefix(ref, remotesPrefix):
		_, name, ok := strings.Cut(strings.TrimPrefix(ref, remotesPrefix), "/")
		if !ok || name == "" || name == "HEAD" {
			return "", false, false
		}
		return types.BranchName(name), true, true
	}
	return "", false, false
}

// IsActive reports whether date lies strictly inside the window (now-recency, now].
func IsActive(date, now time.Time, recency time.Duration) bool {
	return date.After(now.Add(-recency))
}

// ListActive returns the branches of repoDir with Active set. Inactive branches are returned
// too so that callers can report them. An empty branch list is ErrNoBranches.
func ListActive(ctx context.Context, git Git, repoDir string, opts Options) ([]model.Branch, error) {
	stream, err := git.ListBranchRefs(ctx, repoDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list branches", goerr.V("repo", repoDir))
	}
	branches, err := ParseRefs(stream)
	closeErr := stream.Close()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse branches", goerr.V("repo", repoDir))
	}
	if closeErr != nil {
		return nil, goerr.Wrap(closeErr, "failed to list branches", goerr.V("repo", repoDir))
	}

	if len(branches) == 0 {
		return nil, goerr.Wrap(types.ErrNoBranches, "repository has no branches", goerr.V("repo", repoDir))
	}

	if !opts.Filter {
		for i := range branches {
			branches[i].Active = true
		}
		return branches, nil
	}

	now := logging.CtxTime(ctx)
	var eg errgroup.Group
	for i := range branches {
		eg.Go(func() error {
			b := &branches[i]
			date, err := lastCommitDate(ctx, git, repoDir, b.Ref)
			if err != nil {
				logging.From(ctx).Warn("cannot resolve last commit date, treat branch as inactive",
					"branch", b.Name, "error", err)
				return nil
			}
			b.LastCommitDate = date
			b.Active = IsActive(date, now, opts.Recency)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return branches, nil
}

// Active returns only the active branches.
func Active(branches []model.Branch) []model.Branch {
	var out []model.Branch
	for _, b := range branches {
		if b.Active {
			out = append(out, b)
		}
	}
	return out
}

func lastCommitDate(ctx context.Context, git Git, repoDir, ref string) (time.Time, error) {
	raw, err := git.LastCommitDate(ctx, repoDir, ref)
	if err != nil {
		return time.Time{}, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, goerr.Wrap(types.ErrInvalidGitData, "empty commit history", goerr.V("ref", ref))
	}
	date, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, goerr.Wrap(types.ErrInvalidGitData, "malformed commit date",
			goerr.V("ref", ref), goerr.V("date", raw))
	}
	return date, nil
}
