package model

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
)

// ScanOptions configures one repository scan.
type ScanOptions struct {
	// History enables scanning the patch history of branches in addition to the working tree.
	History bool
	// FilterBranches restricts history scanning to branches active within Recency.
	FilterBranches bool
	Recency        time.Duration
	Strategy       types.Strategy
	// BatchWidth bounds concurrently scanned branches (streaming strategy only).
	BatchWidth  int
	MaxFileSize int64
	FileWorkers int

	ExcludeExtensions []string
	ExcludePaths      []string
	SkipVendored      bool
}

func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		FilterBranches: true,
		Recency:        types.DefaultRecency,
		Strategy:       types.StrategyStreaming,
		BatchWidth:     types.DefaultBatchWidth,
		MaxFileSize:    types.DefaultMaxFileSize,
		FileWorkers:    types.DefaultFileWorkers,
	}
}

func (x *ScanOptions) Validate() error {
	if err := x.Strategy.Validate(); err != nil {
		return err
	}
	if x.Recency <= 0 {
		return goerr.Wrap(types.ErrInvalidOption, "recency must be positive", goerr.V("recency", x.Recency))
	}
	if x.BatchWidth <= 0 {
		return goerr.Wrap(types.ErrInvalidOption, "batch width must be positive", goerr.V("width", x.BatchWidth))
	}
	if x.MaxFileSize <= 0 {
		return goerr.Wrap(types.ErrInvalidOption, "max file size must be positive", goerr.V("size", x.MaxFileSize))
	}
	if x.FileWorkers <= 0 {
		return goerr.Wrap(types.ErrInvalidOption, "file workers must be positive", goerr.V("workers", x.FileWorkers))
	}
	return nil
}

type ScanLocalInput struct {
	Path string
	Name string
	URL  string
	// AllowCheckout permits the checkout strategy to reset and clean the working tree of Path.
	AllowCheckout bool
	Options       ScanOptions
}

func (x *ScanLocalInput) Validate() error {
	if x.Path == "" {
		return goerr.Wrap(types.ErrInvalidOption, "path is empty")
	}
	if x.Options.History && x.Options.Strategy == types.StrategyCheckout && !x.AllowCheckout {
		return goerr.Wrap(types.ErrInvalidOption, "checkout strategy discards local changes of the working tree, allow it explicitly",
			goerr.V("path", x.Path))
	}
	return x.Options.Validate()
}

type ScanRemoteInput struct {
	Repo RepositoryRef
	// WorkDir is the parent directory of the temporary clone. Empty means os.TempDir().
	WorkDir string
	// Keep leaves the clone on disk after the scan.
	Keep    bool
	Options ScanOptions
}

func (x *ScanRemoteInput) Validate() error {
	if x.Repo.URL == "" {
		return goerr.Wrap(types.ErrInvalidOption, "repository URL is empty")
	}
	return x.Options.Validate()
}

// BatchHandler receives the reports of each finished project batch. index starts at 0.
type BatchHandler func(ctx context.Context, index int, reports []*RepoReport) error

type ScanFleetInput struct {
	// Repositories are scanned in addition to the ones found by the discoverer.
	Repositories []RepositoryRef
	BatchWidth   int
	WorkDir      string
	Options      ScanOptions
	OnBatch      BatchHandler
}

func (x *ScanFleetInput) Validate() error {
	if x.BatchWidth <= 0 {
		return goerr.Wrap(types.ErrInvalidOption, "batch width must be positive", goerr.V("width", x.BatchWidth))
	}
	return x.Options.Validate()
}
