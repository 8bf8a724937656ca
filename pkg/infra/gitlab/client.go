// Package gitlab discovers the projects of GitLab group hierarchies.
package gitlab

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/interfaces"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/errutil"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const (
	ProtocolSSH   = "ssh"
	ProtocolHTTPS = "https"

	// tokenUsername is the basic auth user GitLab accepts with a personal or group token.
	tokenUsername = "oauth2"
	perPage       = 100
)

type Client struct {
	client   *gitlab.Client
	token    types.Secret
	groups   []string
	protocol string
}

var _ interfaces.Discoverer = (*Client)(nil)

type Option func(*config)

type config struct {
	baseURL    string
	protocol   string
	httpClient *http.Client
}

// WithBaseURL sets the GitLab instance, e.g. https://gitlab.example.com.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithProtocol selects the clone URL protocol, ProtocolSSH (default) or ProtocolHTTPS.
func WithProtocol(protocol string) Option {
	return func(c *config) {
		c.protocol = protocol
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// New creates a discoverer walking groups, given as numeric IDs or full paths, and all of
// their subgroups.
func New(token types.Secret, groups []string, options ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "GitLab token is empty")
	}
	if len(groups) == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "no GitLab group is specified")
	}

	cfg := config{protocol: ProtocolSSH}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.protocol != ProtocolSSH && cfg.protocol != ProtocolHTTPS {
		return nil, goerr.Wrap(types.ErrInvalidOption, "clone protocol should be 'ssh' or 'https'",
			goerr.V("protocol", cfg.protocol))
	}

	var clientOpts []gitlab.ClientOptionFunc
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, gitlab.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, gitlab.WithHTTPClient(cfg.httpClient))
	}

	client, err := gitlab.NewClient(string(token), clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "failed to create GitLab client",
			goerr.V("url", cfg.baseURL), goerr.V("error", err.Error()))
	}

	return &Client{
		client:   client,
		token:    token,
		groups:   groups,
		protocol: cfg.protocol,
	}, nil
}

// Discover walks the group hierarchy breadth first with an explicit queue. Every group is
// listed once even when reachable from several roots. A group that cannot be listed is
// returned as a failure and its subtree is not visited. The error is set only when none of
// the root groups could be listed.
func (x *Client) Discover(ctx context.Context) (*model.Discovery, error) {
	queue := append([]string{}, x.groups...)
	visited := make(map[string]struct{})
	seenRepos := make(map[string]struct{})
	roots := make(map[string]struct{}, len(x.groups))
	for _, gid := range x.groups {
		roots[gid] = struct{}{}
	}

	discovery := &model.Discovery{}
	rootFailures := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return discovery, goerr.Wrap(err, "GitLab discovery interrupted")
		}

		gid := queue[0]
		queue = queue[1:]
		if _, ok := visited[gid]; ok {
			continue
		}
		visited[gid] = struct{}{}

		subgroups, projects, err := x.listGroup(ctx, gid)
		if err != nil {
			if _, ok := roots[gid]; ok {
				rootFailures++
			}
			discovery.Failures = append(discovery.Failures,
				errutil.Failure(ctx, types.FailureGroup, gid, "", err))
			continue
		}
		for _, sub := range subgroups {
			queue = append(queue, fmt.Sprint(sub.ID))
		}

		for _, p := range projects {
			if p.Archived {
				continue
			}
			ref := x.repositoryRef(p)
			if _, ok := seenRepos[ref.URL]; ok {
				continue
			}
			seenRepos[ref.URL] = struct{}{}
			discovery.Repositories = append(discovery.Repositories, ref)
		}
	}

	if rootFailures == len(roots) {
		return discovery, goerr.Wrap(types.ErrDiscoveryFailed, "no GitLab group could be listed",
			goerr.V("groups", x.groups))
	}

	logging.From(ctx).Info("GitLab discovery finished",
		slog.Int("groups", len(visited)),
		slog.Int("repositories", len(discovery.Repositories)),
		slog.Int("failures", len(discovery.Failures)),
	)
	return discovery, nil
}

func (x *Client) repositoryRef(p *gitlab.Project) model.RepositoryRef {
	ref := model.RepositoryRef{Name: p.PathWithNamespace, URL: p.SSHURLToRepo}
	if x.protocol == ProtocolHTTPS {
		ref.URL = p.HTTPURLToRepo
		ref.Credential = &model.Credential{Username: tokenUsername, Password: x.token}
	}
	return ref
}

// listGroup returns the direct subgroups and projects of gid.
func (x *Client) listGroup(ctx context.Context, gid string) ([]*gitlab.Group, []*gitlab.Project, error) {
	logging.From(ctx).Debug("listing GitLab group", "group", gid)

	var subgroups []*gitlab.Group
	for page := 1; page != 0; {
		groups, resp, err := x.client.Groups.ListSubGroups(gid, &gitlab.ListSubGroupsOptions{
			ListOptions: gitlab.ListOptions{PerPage: perPage, Page: page},
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to list subgroups", goerr.V("group", gid))
		}
		subgroups = append(subgroups, groups...)
		page = resp.NextPage
	}

	var projects []*gitlab.Project
	for page := 1; page != 0; {
		items, resp, err := x.client.Groups.ListGroupProjects(gid, &gitlab.ListGroupProjectsOptions{
			ListOptions:      gitlab.ListOptions{PerPage: perPage, Page: page},
			Archived:         gitlab.Ptr(false),
			IncludeSubGroups: gitlab.Ptr(false),
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to list projects", goerr.V("group", gid))
		}
		projects = append(projects, items...)
		page = resp.NextPage
	}

	return subgroups, projects, nil
}
