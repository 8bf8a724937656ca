package ghapp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/interfaces"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/errutil"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
)

// tokenUsername is the basic auth user GitHub expects with an installation token.
const tokenUsername = "x-access-token"

type Client struct {
	appID     types.GitHubAppID
	pem       types.GitHubAppPrivateKey
	owners    []string
	baseURL   string
	transport http.RoundTripper
}

var _ interfaces.Discoverer = (*Client)(nil)

type Option func(*Client)

// WithOwners sets the organizations or users whose repositories are discovered.
func WithOwners(owners ...string) Option {
	return func(x *Client) {
		x.owners = append(x.owners, owners...)
	}
}

// WithBaseURL points the client to a GitHub Enterprise Server.
func WithBaseURL(baseURL string) Option {
	return func(x *Client) {
		x.baseURL = baseURL
	}
}

func WithTransport(tr http.RoundTripper) Option {
	return func(x *Client) {
		x.transport = tr
	}
}

func New(appID types.GitHubAppID, pem types.GitHubAppPrivateKey, options ...Option) (*Client, error) {
	if appID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "appID is empty")
	}
	if pem == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "pem is empty")
	}

	client := &Client{
		appID:     appID,
		pem:       pem,
		transport: http.DefaultTransport,
	}
	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (x *Client) newGitHubClient(tr http.RoundTripper) (*github.Client, error) {
	client := github.NewClient(&http.Client{Transport: tr})
	if x.baseURL == "" {
		return client, nil
	}

	client, err := client.WithEnterpriseURLs(x.baseURL, x.baseURL)
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "invalid GitHub base URL",
			goerr.V("url", x.baseURL), goerr.V("error", err.Error()))
	}
	return client, nil
}

// apiBaseURL is the REST endpoint without trailing slash, as expected by ghinstallation.
func (x *Client) apiBaseURL(client *github.Client) string {
	return strings.TrimSuffix(client.BaseURL.String(), "/")
}

func (x *Client) installationTransport(installID types.GitHubAppInstallID) (*ghinstallation.Transport, *github.Client, error) {
	itr, err := ghinstallation.New(x.transport, int64(x.appID), int64(installID), []byte(x.pem))
	if err != nil {
		return nil, nil, goerr.Wrap(err, "Failed to create github client")
	}

	client, err := x.newGitHubClient(itr)
	if err != nil {
		return nil, nil, err
	}
	if x.baseURL != "" {
		itr.BaseURL = x.apiBaseURL(client)
	}

	return itr, client, nil
}

func (x *Client) buildAppClient() (*github.Client, error) {
	itr, err := ghinstallation.NewAppsTransport(x.transport, int64(x.appID), []byte(x.pem))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create app transport")
	}

	client, err := x.newGitHubClient(itr)
	if err != nil {
		return nil, err
	}
	if x.baseURL != "" {
		itr.BaseURL = x.apiBaseURL(client)
	}
	return client, nil
}

// Discover lists the repositories of every configured owner that the app is installed on.
// Archived and disabled repositories are skipped. An owner that cannot be listed is
// returned as a failure; the error is set only when no owner could be listed.
func (x *Client) Discover(ctx context.Context) (*model.Discovery, error) {
	if len(x.owners) == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "no GitHub owner is specified")
	}

	discovery := &model.Discovery{}
	for _, owner := range x.owners {
		repos, err := x.discoverOwner(ctx, owner)
		if err != nil {
			discovery.Failures = append(discovery.Failures,
				errutil.Failure(ctx, types.FailureGroup, owner, "", err))
			continue
		}
		discovery.Repositories = append(discovery.Repositories, repos...)
	}

	if len(discovery.Failures) == len(x.owners) {
		return discovery, goerr.Wrap(types.ErrDiscoveryFailed, "no GitHub owner could be listed",
			goerr.V("owners", x.owners))
	}

	logging.From(ctx).Info("GitHub discovery finished",
		slog.Int("repositories", len(discovery.Repositories)),
		slog.Int("failures", len(discovery.Failures)),
	)
	return discovery, nil
}

func (x *Client) discoverOwner(ctx context.Context, owner string) ([]model.RepositoryRef, error) {
	installID, err := x.GetInstallationIDForOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	itr, client, err := x.installationTransport(installID)
	if err != nil {
		return nil, err
	}

	repos, err := listInstallationRepos(ctx, client)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list installation repos", goerr.V("installID", installID))
	}

	token, err := itr.Token(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to issue installation token", goerr.V("installID", installID))
	}
	cred := &model.Credential{Username: tokenUsername, Password: types.Secret(token)}

	var refs []model.RepositoryRef
	for _, repo := range repos {
		if repo.GetArchived() || repo.GetDisabled() {
			logging.From(ctx).Debug("skip inactive repository", "repo", repo.GetFullName())
			continue
		}
		refs = append(refs, model.RepositoryRef{
			Name:       repo.GetFullName(),
			URL:        repo.GetCloneURL(),
			Credential: cred,
		})
	}
	return refs, nil
}

// ListInstallationRepos returns every repository the installation can access.
func (x *Client) ListInstallationRepos(ctx context.Context, installID types.GitHubAppInstallID) ([]*github.Repository, error) {
	_, client, err := x.installationTransport(installID)
	if err != nil {
		return nil, err
	}
	return listInstallationRepos(ctx, client)
}

func listInstallationRepos(ctx context.Context, client *github.Client) ([]*github.Repository, error) {
	var allRepos []*github.Repository
	opts := &github.ListOptions{PerPage: 100}

	for {
		result, resp, err := client.Apps.ListRepos(ctx, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list installation repos")
		}
		allRepos = append(allRepos, result.Repositories...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logging.From(ctx).Info("Listed installation repos", slog.Int("count", len(allRepos)))
	return allRepos, nil
}

func (x *Client) GetInstallationIDForOwner(ctx context.Context, owner string) (types.GitHubAppInstallID, error) {
	client, err := x.buildAppClient()
	if err != nil {
		return 0, err
	}

	// Try organization installation first
	installation, resp, orgErr := client.Apps.FindOrganizationInstallation(ctx, owner)
	if orgErr == nil && installation != nil {
		logging.From(ctx).Info("Found organization installation",
			slog.String("owner", owner),
			slog.Int64("installID", installation.GetID()),
		)
		return types.GitHubAppInstallID(installation.GetID()), nil
	}

	// If not found as org (404), try user installation
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		installation, _, userErr := client.Apps.FindUserInstallation(ctx, owner)
		if userErr != nil {
			return 0, goerr.Wrap(userErr, "failed to find user installation for owner",
				goerr.V("owner", owner),
			)
		}

		if installation != nil {
			logging.From(ctx).Info("Found user installation",
				slog.String("owner", owner),
				slog.Int64("installID", installation.GetID()),
			)
			return types.GitHubAppInstallID(installation.GetID()), nil
		}
	}

	if orgErr != nil {
		return 0, goerr.Wrap(orgErr, "failed to find organization installation for owner",
			goerr.V("owner", owner),
		)
	}

	return 0, goerr.Wrap(types.ErrDiscoveryFailed, "installation not found for owner",
		goerr.V("owner", owner),
	)
}
