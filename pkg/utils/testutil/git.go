package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// RequireGit skips the test when the git binary is not available.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary is not available, skipping test")
	}
}

// GitRepo is a throwaway repository driven by the git binary.
type GitRepo struct {
	t   *testing.T
	env []string
	Dir string
}

// NewGitRepo initializes an empty repository on branch "main" in a temporary directory.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	RequireGit(t)

	repo := &GitRepo{t: t, Dir: t.TempDir()}
	repo.Git("init", "-q", "-b", "main")
	repo.Git("config", "user.name", "tester")
	repo.Git("config", "user.email", "tester@example.com")
	repo.Git("config", "commit.gpgsign", "false")
	return repo
}

// Git runs a git subcommand in the repository and returns trimmed stdout.
func (x *GitRepo) Git(args ...string) string {
	x.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = x.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1")
	cmd.Env = append(cmd.Env, x.env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		x.t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// Write creates or replaces a file relative to the repository root.
func (x *GitRepo) Write(path, content string) {
	x.t.Helper()
	full := filepath.Join(x.Dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		x.t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		x.t.Fatal(err)
	}
}

// Commit stages everything and commits it. The new commit hash is returned.
func (x *GitRepo) Commit(msg string) string {
	x.t.Helper()
	x.Git("add", "-A")
	x.Git("commit", "-q", "--allow-empty", "-m", msg)
	return x.Git("rev-parse", "HEAD")
}

// CommitAt is Commit with both author and committer date set to at.
func (x *GitRepo) CommitAt(msg string, at time.Time) string {
	x.t.Helper()
	date := at.Format(time.RFC3339)
	x.env = []string{"GIT_AUTHOR_DATE=" + date, "GIT_COMMITTER_DATE=" + date}
	defer func() { x.env = nil }()
	return x.Commit(msg)
}
