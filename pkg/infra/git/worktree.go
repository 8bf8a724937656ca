package git

import (
	"context"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
)

// Clone clones url into dst with every branch as a remote-tracking ref. HTTPS URLs use cred
// for basic auth; SSH URLs authenticate through the ssh agent.
func (x *Client) Clone(ctx context.Context, url, dst string, cred *model.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	auth, err := cloneAuth(ctx, url, cred)
	if err != nil {
		return err
	}

	logging.From(ctx).Info("cloning repository", "url", url, "dst", dst)
	if _, err := gogit.PlainCloneContext(ctx, dst, false, &gogit.CloneOptions{
		URL:  url,
		Auth: auth,
		Tags: gogit.NoTags,
	}); err != nil {
		if ctx.Err() != nil {
			return goerr.Wrap(types.ErrCommandTimeout, "clone timed out", goerr.V("url", url))
		}
		return goerr.Wrap(types.ErrCommandFailed, "failed to clone repository",
			goerr.V("url", url), goerr.V("error", err.Error()))
	}

	return nil
}

func cloneAuth(ctx context.Context, url string, cred *model.Credential) (transport.AuthMethod, error) {
	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "invalid repository URL",
			goerr.V("url", url), goerr.V("error", err.Error()))
	}

	switch ep.Protocol {
	case "http", "https":
		if cred == nil {
			return nil, nil
		}
		return &http.BasicAuth{Username: cred.Username, Password: string(cred.Password)}, nil

	case "ssh":
		user := ep.User
		if user == "" {
			user = "git"
		}
		auth, err := ssh.NewSSHAgentAuth(user)
		if err != nil {
			logging.From(ctx).Warn("ssh agent is not available, falling back to default ssh auth", "error", err)
			return nil, nil
		}
		return auth, nil
	}

	return nil, nil
}

// Checkout discards local changes and untracked files of repoDir, then checks out ref.
// A local branch ref is checked out as a branch, anything else detached at its commit.
func (x *Client) Checkout(ctx context.Context, repoDir, ref string) error {
	repo, err := gogit.PlainOpen(repoDir)
	if err != nil {
		return goerr.Wrap(err, "failed to open repository", goerr.V("dir", repoDir))
	}
	wt, err := repo.Worktree()
	if err != nil {
		return goerr.Wrap(err, "failed to get worktree", goerr.V("dir", repoDir))
	}

	if err := wt.Reset(&gogit.ResetOptions{Mode: gogit.HardReset}); err != nil {
		return goerr.Wrap(err, "failed to reset worktree", goerr.V("dir", repoDir))
	}
	if err := wt.Clean(&gogit.CleanOptions{Dir: true}); err != nil {
		return goerr.Wrap(err, "failed to clean worktree", goerr.V("dir", repoDir))
	}

	opts := &gogit.CheckoutOptions{Force: true}
	switch {
	case plumbing.IsHash(ref):
		opts.Hash = plumbing.NewHash(ref)
	case strings.HasPrefix(ref, "refs/heads/"):
		opts.Branch = plumbing.ReferenceName(ref)
	default:
		resolved, err := repo.Reference(plumbing.ReferenceName(ref), true)
		if err != nil {
			return goerr.Wrap(err, "failed to resolve ref", goerr.V("ref", ref))
		}
		opts.Hash = resolved.Hash()
	}

	logging.From(ctx).Debug("checkout", "dir", repoDir, "ref", ref)
	if err := wt.Checkout(opts); err != nil {
		return goerr.Wrap(err, "failed to checkout", goerr.V("ref", ref))
	}
	return nil
}

// CurrentBranch returns the full ref HEAD points to, or the commit hash when HEAD is
// detached. Both forms are accepted by Checkout.
func (x *Client) CurrentBranch(ctx context.Context, repoDir string) (string, error) {
	repo, err := gogit.PlainOpen(repoDir)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open repository", goerr.V("dir", repoDir))
	}

	head, err := repo.Head()
	if err != nil {
		return "", goerr.Wrap(err, "failed to get HEAD", goerr.V("dir", repoDir))
	}
	if head.Name().IsBranch() {
		return head.Name().String(), nil
	}
	return head.Hash().String(), nil
}
