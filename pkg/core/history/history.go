// Package history scans the history of branches. Two strategies exist: Streaming parses the
// patch stream and is safe to run for many branches at once; Checkout rewrites the shared
// working tree for every branch and therefore scans one branch at a time.
package history

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/core/diffstream"
	"github.com/m-mizutani/langaudit/pkg/core/filter"
	"github.com/m-mizutani/langaudit/pkg/core/tree"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/batch"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
)

type Strategy interface {
	Name() types.Strategy
	// ConcurrentSafe reports whether ScanBranch may run for several branches of the same
	// repository at the same time.
	ConcurrentSafe() bool
	ScanBranch(ctx context.Context, repoDir string, branch model.Branch) (*model.BranchResult, error)
}

// PatchSource streams the patch history of a ref.
type PatchSource interface {
	LogPatch(ctx context.Context, repoDir, ref string, since time.Time) (io.ReadCloser, error)
}

// Checkouter replaces the working tree with the content of a ref.
type Checkouter interface {
	Checkout(ctx context.Context, repoDir, ref string) error
}

// Streaming reports the first offending added line of each file in each commit newer than
// the recency window.
type Streaming struct {
	git     PatchSource
	filter  diffstream.Excluder
	recency time.Duration
}

func NewStreaming(git PatchSource, f *filter.Filter, recency time.Duration) *Streaming {
	if f == nil {
		f = filter.Default()
	}
	return &Streaming{git: git, filter: f, recency: recency}
}

func (x *Streaming) Name() types.Strategy { return types.StrategyStreaming }
func (x *Streaming) ConcurrentSafe() bool { return true }

func (x *Streaming) ScanBranch(ctx context.Context, repoDir string, branch model.Branch) (*model.BranchResult, error) {
	since := logging.CtxTime(ctx).Add(-x.recency)

	stream, err := x.git.LogPatch(ctx, repoDir, branch.Ref, since)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read branch history", goerr.V("branch", branch.Name))
	}

	findings, scanErr := diffstream.Scan(ctx, stream, branch.Name, x.filter)
	closeErr := stream.Close()
	if scanErr != nil {
		return nil, scanErr
	}
	if closeErr != nil {
		return nil, goerr.Wrap(closeErr, "branch history command failed", goerr.V("branch", branch.Name))
	}

	logging.From(ctx).Debug("branch history scanned", "branch", branch.Name, "findings", len(findings))
	return &model.BranchResult{Branch: branch, History: findings}, nil
}

// Checkout scans a full snapshot of every branch. The repository's working tree is shared,
// so calls on one instance are serialized.
type Checkout struct {
	git     Checkouter
	scanner *tree.Scanner
	mu      sync.Mutex
}

func NewCheckout(git Checkouter, scanner *tree.Scanner) *Checkout {
	if scanner == nil {
		scanner = tree.New()
	}
	return &Checkout{git: git, scanner: scanner}
}

func (x *Checkout) Name() types.Strategy { return types.StrategyCheckout }
func (x *Checkout) ConcurrentSafe() bool { return false }

func (x *Checkout) ScanBranch(ctx context.Context, repoDir string, branch model.Branch) (*model.BranchResult, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.git.Checkout(ctx, repoDir, branch.Ref); err != nil {
		return nil, goerr.Wrap(err, "failed to check out branch", goerr.V("branch", branch.Name))
	}

	result, err := x.scanner.Scan(ctx, repoDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan branch snapshot", goerr.V("branch", branch.Name))
	}

	return &model.BranchResult{Branch: branch, Tree: result}, nil
}

// Git is the transport needed by every strategy.
type Git interface {
	PatchSource
	Checkouter
}

type Options struct {
	Filter  *filter.Filter
	Scanner *tree.Scanner
	Recency time.Duration
}

// New builds the strategy called name.
func New(name types.Strategy, git Git, opts Options) (Strategy, error) {
	switch name {
	case types.StrategyStreaming:
		return NewStreaming(git, opts.Filter, opts.Recency), nil
	case types.StrategyCheckout:
		return NewCheckout(git, opts.Scanner), nil
	}
	return nil, goerr.Wrap(types.ErrInvalidOption, "unknown strategy", goerr.V("strategy", name))
}

// Run scans branches with s. Up to width branches run at once when s is concurrent safe,
// otherwise one at a time. A failed branch carries its error in BranchResult.Error and does
// not affect the others. Results are in the order of branches.
func Run(ctx context.Context, s Strategy, repoDir string, branches []model.Branch, width int) []model.BranchResult {
	if !s.ConcurrentSafe() {
		width = 1
	}

	outcomes := batch.Run(ctx, branches, width, func(ctx context.Context, b model.Branch) (*model.BranchResult, error) {
		return s.ScanBranch(logging.WithAttrs(ctx, "branch", b.Name), repoDir, b)
	})

	results := make([]model.BranchResult, len(outcomes))
	for i, o := range outcomes {
		switch {
		case o.Err != nil:
			logging.From(ctx).Warn("branch scan failed", "branch", o.Item.Name, "error", o.Err)
			results[i] = model.BranchResult{Branch: o.Item, Error: o.Err.Error()}
		case o.Value == nil:
			results[i] = model.BranchResult{Branch: o.Item}
		default:
			results[i] = *o.Value
		}
	}
	return results
}
