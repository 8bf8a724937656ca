package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Scan holds the options shared by every scanning command.
type Scan struct {
	recency           time.Duration
	noFilter          bool
	strategy          string
	branchWidth       int
	maxFileSize       string
	fileWorkers       int
	excludeExtensions []string
	excludePaths      []string
	skipVendored      bool
	configFile        string
}

// ExclusionFile is the YAML config file. A list given in the file replaces the list given by
// flags; built-in exclusions always apply.
type ExclusionFile struct {
	ExcludeExtensions []string `yaml:"exclude_extensions"`
	ExcludePaths      []string `yaml:"exclude_paths"`
	SkipVendored      *bool    `yaml:"skip_vendored"`
}

func (x *Scan) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "recency",
			Usage:       "Branches without a commit within this period are inactive",
			Category:    "Scan",
			Value:       types.DefaultRecency,
			Destination: &x.recency,
			Sources:     cli.EnvVars("LANGAUDIT_RECENCY"),
		},
		&cli.BoolFlag{
			Name:        "no-filter",
			Usage:       "Scan history of inactive branches too",
			Category:    "Scan",
			Destination: &x.noFilter,
			Sources:     cli.EnvVars("LANGAUDIT_NO_FILTER"),
		},
		&cli.StringFlag{
			Name:        "strategy",
			Usage:       "History scan strategy [streaming|checkout]",
			Category:    "Scan",
			Value:       string(types.StrategyStreaming),
			Destination: &x.strategy,
			Sources:     cli.EnvVars("LANGAUDIT_STRATEGY"),
		},
		&cli.IntFlag{
			Name:        "branch-width",
			Usage:       "Number of branches scanned concurrently (streaming strategy)",
			Category:    "Scan",
			Value:       types.DefaultBatchWidth,
			Destination: &x.branchWidth,
			Sources:     cli.EnvVars("LANGAUDIT_BRANCH_WIDTH"),
		},
		&cli.StringFlag{
			Name:        "max-file-size",
			Usage:       "Files larger than this are skipped, e.g. 512MiB",
			Category:    "Scan",
			Value:       humanize.IBytes(uint64(types.DefaultMaxFileSize)),
			Destination: &x.maxFileSize,
			Sources:     cli.EnvVars("LANGAUDIT_MAX_FILE_SIZE"),
		},
		&cli.IntFlag{
			Name:        "file-workers",
			Usage:       "Number of files read concurrently",
			Category:    "Scan",
			Value:       types.DefaultFileWorkers,
			Destination: &x.fileWorkers,
			Sources:     cli.EnvVars("LANGAUDIT_FILE_WORKERS"),
		},
		&cli.StringSliceFlag{
			Name:        "exclude-ext",
			Usage:       "Additional file extension to skip, e.g. .svg",
			Category:    "Scan",
			Destination: &x.excludeExtensions,
			Sources:     cli.EnvVars("LANGAUDIT_EXCLUDE_EXT"),
		},
		&cli.StringSliceFlag{
			Name:        "exclude-path",
			Usage:       "Additional path glob to skip, e.g. **/testdata/**",
			Category:    "Scan",
			Destination: &x.excludePaths,
			Sources:     cli.EnvVars("LANGAUDIT_EXCLUDE_PATH"),
		},
		&cli.BoolFlag{
			Name:        "skip-vendored",
			Usage:       "Skip vendored and third party directories",
			Category:    "Scan",
			Destination: &x.skipVendored,
			Sources:     cli.EnvVars("LANGAUDIT_SKIP_VENDORED"),
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "YAML file with exclusion lists",
			Category:    "Scan",
			Aliases:     []string{"c"},
			Destination: &x.configFile,
			Sources:     cli.EnvVars("LANGAUDIT_CONFIG"),
		},
	}
}

// Options builds validated scan options. history enables branch history scanning.
func (x *Scan) Options(history bool) (model.ScanOptions, error) {
	opts := model.DefaultScanOptions()
	opts.History = history
	opts.FilterBranches = !x.noFilter
	opts.Recency = x.recency
	opts.Strategy = types.Strategy(x.strategy)
	opts.BatchWidth = x.branchWidth
	opts.FileWorkers = x.fileWorkers
	opts.ExcludeExtensions = x.excludeExtensions
	opts.ExcludePaths = x.excludePaths
	opts.SkipVendored = x.skipVendored

	if x.maxFileSize != "" {
		size, err := humanize.ParseBytes(x.maxFileSize)
		if err != nil {
			return opts, goerr.Wrap(types.ErrInvalidOption, "invalid max file size",
				goerr.V("size", x.maxFileSize), goerr.V("error", err.Error()))
		}
		opts.MaxFileSize = int64(size)
	}

	if x.configFile != "" {
		file, err := LoadExclusionFile(x.configFile)
		if err != nil {
			return opts, err
		}
		if file.ExcludeExtensions != nil {
			opts.ExcludeExtensions = file.ExcludeExtensions
		}
		if file.ExcludePaths != nil {
			opts.ExcludePaths = file.ExcludePaths
		}
		if file.SkipVendored != nil {
			opts.SkipVendored = *file.SkipVendored
		}
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func LoadExclusionFile(path string) (*ExclusionFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var file ExclusionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "failed to parse config file",
			goerr.V("path", path), goerr.V("error", err.Error()))
	}
	return &file, nil
}

func (x Scan) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("recency", x.recency),
		slog.Bool("noFilter", x.noFilter),
		slog.String("strategy", x.strategy),
		slog.Int("branchWidth", x.branchWidth),
		slog.String("maxFileSize", x.maxFileSize),
		slog.Int("fileWorkers", x.fileWorkers),
		slog.Any("excludeExtensions", x.excludeExtensions),
		slog.Any("excludePaths", x.excludePaths),
		slog.Bool("skipVendored", x.skipVendored),
		slog.String("configFile", x.configFile),
	)
}
