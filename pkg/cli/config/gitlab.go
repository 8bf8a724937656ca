package config

import (
	"log/slog"

	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/infra/gitlab"
	"github.com/urfave/cli/v3"
)

type GitLab struct {
	token    types.Secret
	groups   []string
	baseURL  string
	protocol string
}

func (x *GitLab) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gitlab-token",
			Usage:       "GitLab personal or group access token",
			Category:    "GitLab",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("LANGAUDIT_GITLAB_TOKEN"),
		},
		&cli.StringSliceFlag{
			Name:        "gitlab-group",
			Usage:       "Root group ID or path; subgroups are walked recursively",
			Category:    "GitLab",
			Destination: &x.groups,
			Sources:     cli.EnvVars("LANGAUDIT_GITLAB_GROUP"),
		},
		&cli.StringFlag{
			Name:        "gitlab-url",
			Usage:       "GitLab base URL",
			Category:    "GitLab",
			Value:       "https://gitlab.com",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("LANGAUDIT_GITLAB_URL"),
		},
		&cli.StringFlag{
			Name:        "gitlab-clone-protocol",
			Usage:       "Clone URL protocol [ssh|https]",
			Category:    "GitLab",
			Value:       gitlab.ProtocolSSH,
			Destination: &x.protocol,
			Sources:     cli.EnvVars("LANGAUDIT_GITLAB_CLONE_PROTOCOL"),
		},
	}
}

func (x *GitLab) Enabled() bool {
	return len(x.groups) > 0
}

func (x *GitLab) New() (*gitlab.Client, error) {
	return gitlab.New(x.token, x.groups,
		gitlab.WithBaseURL(x.baseURL),
		gitlab.WithProtocol(x.protocol),
	)
}

func (x GitLab) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
		slog.Any("groups", x.groups),
		slog.String("baseURL", x.baseURL),
		slog.String("protocol", x.protocol),
	)
}
