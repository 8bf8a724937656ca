package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/cli/config"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func parseScan(t *testing.T, args ...string) (model.ScanOptions, error) {
	t.Helper()
	var (
		scan    config.Scan
		opts    model.ScanOptions
		optsErr error
	)
	cmd := &cli.Command{
		Name:  "test",
		Flags: scan.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			opts, optsErr = scan.Options(true)
			return nil
		},
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return opts, optsErr
}

func TestScanDefaults(t *testing.T) {
	opts := gt.R1(parseScan(t)).NoError(t)

	gt.True(t, opts.History)
	gt.True(t, opts.FilterBranches)
	gt.V(t, opts.Recency).Equal(types.DefaultRecency)
	gt.V(t, opts.Strategy).Equal(types.StrategyStreaming)
	gt.V(t, opts.BatchWidth).Equal(types.DefaultBatchWidth)
	gt.V(t, opts.MaxFileSize).Equal(types.DefaultMaxFileSize)
	gt.V(t, opts.FileWorkers).Equal(types.DefaultFileWorkers)
}

func TestScanFlags(t *testing.T) {
	opts := gt.R1(parseScan(t,
		"--recency", "720h",
		"--no-filter",
		"--strategy", "checkout",
		"--max-file-size", "512MiB",
		"--exclude-ext", ".svg",
		"--exclude-path", "**/testdata/**",
	)).NoError(t)

	gt.V(t, opts.Recency).Equal(720 * time.Hour)
	gt.False(t, opts.FilterBranches)
	gt.V(t, opts.Strategy).Equal(types.StrategyCheckout)
	gt.V(t, opts.MaxFileSize).Equal(int64(512 << 20))
	gt.V(t, opts.ExcludeExtensions).Equal([]string{".svg"})
	gt.V(t, opts.ExcludePaths).Equal([]string{"**/testdata/**"})
}

func TestScanInvalid(t *testing.T) {
	t.Run("strategy", func(t *testing.T) {
		_, err := parseScan(t, "--strategy", "rebase")
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})

	t.Run("file size", func(t *testing.T) {
		_, err := parseScan(t, "--max-file-size", "huge")
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})

	t.Run("branch width", func(t *testing.T) {
		_, err := parseScan(t, "--branch-width", "0")
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})
}

func TestScanConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "langaudit.yaml")
	gt.NoError(t, os.WriteFile(path, []byte(`exclude_extensions:
  - .csv
exclude_paths:
  - "**/fixtures/**"
skip_vendored: true
`), 0644))

	opts := gt.R1(parseScan(t, "--config", path, "--exclude-ext", ".svg")).NoError(t)
	gt.V(t, opts.ExcludeExtensions).Equal([]string{".csv"})
	gt.V(t, opts.ExcludePaths).Equal([]string{"**/fixtures/**"})
	gt.True(t, opts.SkipVendored)

	t.Run("missing file", func(t *testing.T) {
		_, err := parseScan(t, "--config", filepath.Join(t.TempDir(), "none.yaml"))
		gt.Error(t, err)
	})

	t.Run("broken file", func(t *testing.T) {
		broken := filepath.Join(t.TempDir(), "broken.yaml")
		gt.NoError(t, os.WriteFile(broken, []byte("exclude_paths: [\n"), 0644))
		_, err := parseScan(t, "--config", broken)
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})
}
