package config

import (
	"log/slog"

	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Credential authenticates HTTPS clones of repositories given by URL.
type Credential struct {
	username string
	token    types.Secret
}

func (x *Credential) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "clone-username",
			Usage:       "Username for HTTPS clone of explicit URLs",
			Category:    "Clone",
			Value:       "oauth2",
			Destination: &x.username,
			Sources:     cli.EnvVars("LANGAUDIT_CLONE_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "clone-token",
			Usage:       "Token or password for HTTPS clone of explicit URLs",
			Category:    "Clone",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("LANGAUDIT_CLONE_TOKEN"),
		},
	}
}

// Ref builds a repository reference for url. The credential is attached only when a token
// is set.
func (x *Credential) Ref(url string) model.RepositoryRef {
	ref := model.RepositoryRef{URL: url}
	if x.token != "" {
		ref.Credential = &model.Credential{
			Username: x.username,
			Password: x.token,
		}
	}
	return ref
}

func (x Credential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", x.username),
		slog.Int("token.len", len(x.token)),
	)
}
