package config

import (
	"log/slog"

	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/infra/ghapp"
	"github.com/urfave/cli/v3"
)

type GitHubApp struct {
	id         types.GitHubAppID
	privateKey types.GitHubAppPrivateKey `masq:"secret"`
	owners     []string
	baseURL    string
}

func (x *GitHubApp) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Category:    "GitHub App",
			Destination: (*int64)(&x.id),
			Sources:     cli.EnvVars("LANGAUDIT_GITHUB_APP_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App Private Key",
			Category:    "GitHub App",
			Destination: (*string)(&x.privateKey),
			Sources:     cli.EnvVars("LANGAUDIT_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringSliceFlag{
			Name:        "github-owner",
			Usage:       "Organization or user whose installation repositories are scanned",
			Category:    "GitHub App",
			Destination: &x.owners,
			Sources:     cli.EnvVars("LANGAUDIT_GITHUB_OWNER"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub Enterprise base URL (empty for github.com)",
			Category:    "GitHub App",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("LANGAUDIT_GITHUB_BASE_URL"),
		},
	}
}

func (x *GitHubApp) Enabled() bool {
	return x.id != 0
}

func (x *GitHubApp) New() (*ghapp.Client, error) {
	options := []ghapp.Option{ghapp.WithOwners(x.owners...)}
	if x.baseURL != "" {
		options = append(options, ghapp.WithBaseURL(x.baseURL))
	}
	return ghapp.New(x.id, x.privateKey, options...)
}

func (x GitHubApp) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("ID", int64(x.id)),
		slog.Int("privateKey.len", len(x.privateKey)),
		slog.Any("owners", x.owners),
		slog.String("baseURL", x.baseURL),
	)
}
