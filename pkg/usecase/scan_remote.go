package usecase

import (
	"context"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
	"github.com/m-mizutani/langaudit/pkg/utils/safe"
)

// ScanRemote clones input.Repo into a temporary directory and scans it like ScanLocal. The
// clone is removed afterwards unless input.Keep is set.
func (x *UseCase) ScanRemote(ctx context.Context, input *model.ScanRemoteInput) (*model.RepoReport, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	name := input.Repo.Name
	if name == "" {
		name = repoNameFromURL(input.Repo.URL)
	}

	tmpDir, err := os.MkdirTemp(input.WorkDir, "langaudit.*")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create temp directory for clone")
	}
	if input.Keep {
		logging.From(ctx).Info("clone is kept", slog.String("path", tmpDir))
	} else {
		defer safe.RemoveAll(ctx, tmpDir)
	}

	if err := x.clients.Git().Clone(ctx, input.Repo.URL, tmpDir, input.Repo.Credential); err != nil {
		return nil, goerr.Wrap(err, "failed to clone repository", goerr.V("repo", name))
	}

	return x.ScanLocal(ctx, &model.ScanLocalInput{
		Path:          tmpDir,
		Name:          name,
		URL:           input.Repo.URL,
		AllowCheckout: true,
		Options:       input.Options,
	})
}

// repoNameFromURL derives "group/project" from HTTPS and scp-like SSH URLs.
func repoNameFromURL(url string) string {
	name := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	if i := strings.Index(name, "://"); i >= 0 {
		name = name[i+3:]
		if j := strings.Index(name, "/"); j >= 0 {
			return name[j+1:]
		}
		return path.Base(name)
	}
	if i := strings.LastIndex(name, ":"); i >= 0 {
		return name[i+1:]
	}
	return path.Base(name)
}
