// Package git is the git transport. Read-only history queries run the git binary and stream
// its output; clone, checkout and HEAD inspection use go-git.
package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/interfaces"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
)

type Client struct {
	binary  string
	timeout time.Duration
}

var _ interfaces.Git = (*Client)(nil)

type Option func(*Client)

// WithBinary sets the path of the git executable.
func WithBinary(path string) Option {
	return func(x *Client) {
		x.binary = path
	}
}

// WithCommandTimeout bounds every git invocation, including the time spent streaming its
// output and cloning.
func WithCommandTimeout(d time.Duration) Option {
	return func(x *Client) {
		if d > 0 {
			x.timeout = d
		}
	}
}

func New(options ...Option) *Client {
	x := &Client{
		binary:  "git",
		timeout: types.DefaultCommandTimeout,
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

func (x *Client) ListBranchRefs(ctx context.Context, repoDir string) (io.ReadCloser, error) {
	return x.stream(ctx, repoDir,
		"for-each-ref",
		"--format=%(objectname)%09%(refname)",
		"refs/heads",
		"refs/remotes",
	)
}

func (x *Client) LastCommitDate(ctx context.Context, repoDir, ref string) (string, error) {
	out, err := x.run(ctx, repoDir, "log", "-1", "--format=%cI", ref, "--")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (x *Client) LogPatch(ctx context.Context, repoDir, ref string, since time.Time) (io.ReadCloser, error) {
	return x.stream(ctx, repoDir,
		"log",
		"-p",
		"--no-color",
		"--no-ext-diff",
		"--no-textconv",
		"--since="+since.Format(time.RFC3339),
		"--format=%H%x09%cI",
		ref,
		"--",
	)
}

func (x *Client) command(ctx context.Context, repoDir string, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, x.binary, args...)
	cmd.Dir = repoDir
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
	return cmd
}

func (x *Client) run(ctx context.Context, repoDir string, args ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	cmd := x.command(cmdCtx, repoDir, args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.From(ctx).Debug("run git", "args", args, "dir", repoDir)
	if err := cmd.Run(); err != nil {
		return "", commandError(cmdCtx, err, args, repoDir, stderr.String())
	}

	return stdout.String(), nil
}

func (x *Client) stream(ctx context.Context, repoDir string, args ...string) (io.ReadCloser, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, x.timeout)

	cmd := x.command(cmdCtx, repoDir, args)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, goerr.Wrap(err, "failed to create pipe")
	}
	s := &commandStream{
		stdout:  stdout,
		cmd:     cmd,
		ctx:     cmdCtx,
		cancel:  cancel,
		args:    args,
		repoDir: repoDir,
	}
	cmd.Stderr = &s.stderr

	logging.From(ctx).Debug("stream git", "args", args, "dir", repoDir)
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, commandError(cmdCtx, err, args, repoDir, "")
	}

	return s, nil
}

// commandStream is the stdout of a running git process. Close reaps the process.
type commandStream struct {
	stdout  io.ReadCloser
	stderr  bytes.Buffer
	cmd     *exec.Cmd
	ctx     context.Context
	cancel  context.CancelFunc
	args    []string
	repoDir string
	eof     bool
}

func (x *commandStream) Read(p []byte) (int, error) {
	n, err := x.stdout.Read(p)
	if errors.Is(err, io.EOF) {
		x.eof = true
	}
	return n, err
}

// Close stops reading and waits for the process. A non-zero exit status is an error only
// when the output was read to the end; a reader that gives up early kills the process
// through the closed pipe.
func (x *commandStream) Close() error {
	defer x.cancel()

	_ = x.stdout.Close()
	err := x.cmd.Wait()

	if errors.Is(x.ctx.Err(), context.DeadlineExceeded) {
		return commandError(x.ctx, err, x.args, x.repoDir, x.stderr.String())
	}
	if err != nil && x.eof {
		return commandError(x.ctx, err, x.args, x.repoDir, x.stderr.String())
	}
	return nil
}

func commandError(ctx context.Context, err error, args []string, repoDir, stderr string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return goerr.Wrap(types.ErrCommandTimeout, "git command timed out",
			goerr.V("args", args), goerr.V("dir", repoDir))
	}

	var cause string
	if err != nil {
		cause = err.Error()
	}
	return goerr.Wrap(types.ErrCommandFailed, "git command failed",
		goerr.V("args", args),
		goerr.V("dir", repoDir),
		goerr.V("stderr", strings.TrimSpace(stderr)),
		goerr.V("error", cause),
	)
}
