package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . Git Discoverer

import (
	"context"
	"io"
	"time"

	"github.com/m-mizutani/langaudit/pkg/domain/model"
)

// Git is the git transport. Streams returned by ListBranchRefs and LogPatch must be closed;
// Close waits for the underlying process and reports a non-zero exit status as an error.
type Git interface {
	// ListBranchRefs streams "<hash>\t<refname>" lines for local and remote-tracking branches.
	ListBranchRefs(ctx context.Context, repoDir string) (io.ReadCloser, error)
	// LastCommitDate returns the raw committer date (ISO 8601) of the newest commit of ref.
	LastCommitDate(ctx context.Context, repoDir, ref string) (string, error)
	// LogPatch streams the patch history of ref since the given time. Each commit starts with
	// a line "<hash>\t<committer date>" followed by its unified diff.
	LogPatch(ctx context.Context, repoDir, ref string, since time.Time) (io.ReadCloser, error)

	Clone(ctx context.Context, url, dst string, cred *model.Credential) error
	// Checkout resets and cleans the working tree of repoDir, then checks out ref. A local
	// branch ref is checked out as a branch, anything else detached.
	Checkout(ctx context.Context, repoDir, ref string) error
	CurrentBranch(ctx context.Context, repoDir string) (string, error)
}

// Discoverer lists repositories to scan from a hosting API.
type Discoverer interface {
	Discover(ctx context.Context) (*model.Discovery, error)
}
