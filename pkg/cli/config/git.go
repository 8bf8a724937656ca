package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/infra/git"
	"github.com/urfave/cli/v3"
)

type Git struct {
	binary  string
	timeout time.Duration
}

func (x *Git) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "git-binary",
			Usage:       "Path to git binary",
			Category:    "Git",
			Value:       "git",
			Destination: &x.binary,
			Sources:     cli.EnvVars("LANGAUDIT_GIT_BINARY"),
		},
		&cli.DurationFlag{
			Name:        "command-timeout",
			Usage:       "Timeout of a single git command or clone",
			Category:    "Git",
			Value:       types.DefaultCommandTimeout,
			Destination: &x.timeout,
			Sources:     cli.EnvVars("LANGAUDIT_COMMAND_TIMEOUT"),
		},
	}
}

func (x *Git) New() *git.Client {
	return git.New(
		git.WithBinary(x.binary),
		git.WithCommandTimeout(x.timeout),
	)
}

func (x Git) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("binary", x.binary),
		slog.Duration("timeout", x.timeout),
	)
}
