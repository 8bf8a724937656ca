package gitlab_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/infra/gitlab"
	"github.com/m-mizutani/langaudit/pkg/utils/testutil"
)

func project(id int, path string, archived bool) map[string]any {
	return map[string]any{
		"id":                  id,
		"path_with_namespace": path,
		"ssh_url_to_repo":     "git@gitlab.example.com:" + path + ".git",
		"http_url_to_repo":    "https://gitlab.example.com/" + path + ".git",
		"archived":            archived,
	}
}

type fakeGitLab struct {
	mu       sync.Mutex
	requests map[string]int
}

func (x *fakeGitLab) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	x.mu.Lock()
	x.requests[r.URL.Path]++
	x.mu.Unlock()

	if r.Header.Get("PRIVATE-TOKEN") != "glpat-test" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	page := r.URL.Query().Get("page")
	var body any
	next := ""

	switch strings.TrimPrefix(r.URL.Path, "/api/v4/groups/") {
	case "1/subgroups":
		body = []map[string]any{{"id": 2}, {"id": 3}}
	case "1/projects":
		if page == "2" {
			body = []map[string]any{project(12, "acme/old", true)}
		} else {
			body = []map[string]any{project(11, "acme/api", false)}
			next = "2"
		}
	case "2/subgroups":
		body = []map[string]any{{"id": 3}}
	case "2/projects":
		body = []map[string]any{project(21, "acme/team/web", false)}
	case "3/subgroups":
		body = []map[string]any{}
	case "3/projects":
		body = []map[string]any{project(31, "acme/infra/tools", false), project(11, "acme/api", false)}
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"404 Group Not Found"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if next != "" {
		w.Header().Set("X-Next-Page", next)
	}
	_ = json.NewEncoder(w).Encode(body)
}

func newServer(t *testing.T) (*httptest.Server, *fakeGitLab) {
	t.Helper()
	fake := &fakeGitLab{requests: make(map[string]int)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return srv, fake
}

func TestDiscover(t *testing.T) {
	srv, fake := newServer(t)
	ctx := context.Background()

	client := gt.R1(gitlab.New("glpat-test", []string{"1", "9"}, gitlab.WithBaseURL(srv.URL))).NoError(t)
	discovery := gt.R1(client.Discover(ctx)).NoError(t)

	var names []string
	for _, repo := range discovery.Repositories {
		names = append(names, repo.Name)
		gt.True(t, repo.Credential == nil)
	}
	gt.V(t, names).Equal([]string{"acme/api", "acme/team/web", "acme/infra/tools"})
	gt.V(t, discovery.Repositories[0].URL).Equal("git@gitlab.example.com:acme/api.git")

	gt.A(t, discovery.Failures).Length(1)
	gt.V(t, discovery.Failures[0].Name).Equal("9")
	gt.V(t, discovery.Failures[0].Kind).Equal(types.FailureGroup)

	// group 3 is reachable from 1 and 2 but listed once
	gt.V(t, fake.requests["/api/v4/groups/3/projects"]).Equal(1)
}

func TestDiscoverHTTPS(t *testing.T) {
	srv, _ := newServer(t)

	client := gt.R1(gitlab.New("glpat-test", []string{"2"},
		gitlab.WithBaseURL(srv.URL),
		gitlab.WithProtocol(gitlab.ProtocolHTTPS),
	)).NoError(t)
	discovery := gt.R1(client.Discover(context.Background())).NoError(t)

	gt.A(t, discovery.Repositories).Length(3)
	repo := discovery.Repositories[0]
	gt.V(t, repo.URL).Equal("https://gitlab.example.com/acme/team/web.git")
	gt.V(t, repo.Credential.Username).Equal("oauth2")
	gt.V(t, repo.Credential.Password).Equal(types.Secret("glpat-test"))
}

func TestDiscoverAllRootsFail(t *testing.T) {
	srv, _ := newServer(t)

	client := gt.R1(gitlab.New("glpat-test", []string{"404", "405"}, gitlab.WithBaseURL(srv.URL))).NoError(t)
	discovery, err := client.Discover(context.Background())
	gt.True(t, errors.Is(err, types.ErrDiscoveryFailed))
	gt.A(t, discovery.Failures).Length(2)

	t.Run("duplicated root group", func(t *testing.T) {
		client := gt.R1(gitlab.New("glpat-test", []string{"404", "404"}, gitlab.WithBaseURL(srv.URL))).NoError(t)
		discovery, err := client.Discover(context.Background())
		gt.True(t, errors.Is(err, types.ErrDiscoveryFailed))
		gt.A(t, discovery.Failures).Length(1)
	})
}

func TestNew(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		_, err := gitlab.New("", []string{"1"})
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})

	t.Run("no group", func(t *testing.T) {
		_, err := gitlab.New("token", nil)
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})

	t.Run("unknown protocol", func(t *testing.T) {
		_, err := gitlab.New("token", []string{"1"}, gitlab.WithProtocol("ftp"))
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})
}

func TestDiscover_Integration(t *testing.T) {
	env := testutil.GetEnvsOrSkip(t, "TEST_GITLAB_URL", "TEST_GITLAB_TOKEN", "TEST_GITLAB_GROUP")
	url, token, group := env[0], env[1], env[2]

	client := gt.R1(gitlab.New(types.Secret(token), []string{group}, gitlab.WithBaseURL(url))).NoError(t)
	discovery := gt.R1(client.Discover(context.Background())).NoError(t)
	for _, repo := range discovery.Repositories {
		t.Logf("  - %s (%s)", repo.Name, repo.URL)
	}
}
