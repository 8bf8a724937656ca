package safe_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/utils/safe"
)

func TestClose(t *testing.T) {
	ctx := context.Background()

	t.Run("close valid reader", func(t *testing.T) {
		reader := io.NopCloser(bytes.NewReader([]byte("test")))
		safe.Close(ctx, reader)
	})

	t.Run("close nil reader", func(t *testing.T) {
		safe.Close(ctx, nil)
	})

	t.Run("close reader that returns error", func(t *testing.T) {
		safe.Close(ctx, &errorCloser{})
	})

	t.Run("close reader that returns EOF", func(t *testing.T) {
		safe.Close(ctx, &eofCloser{})
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("remove existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		gt.NoError(t, os.WriteFile(path, []byte("{}"), 0600))

		safe.Remove(ctx, path)

		_, err := os.Stat(path)
		gt.True(t, os.IsNotExist(err))
	})

	t.Run("remove non-existing file", func(t *testing.T) {
		safe.Remove(ctx, "/nonexistent/path/file.txt")
	})
}

func TestRemoveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("remove clone directory", func(t *testing.T) {
		tmpDir := gt.R1(os.MkdirTemp("", "langaudit-clone-*")).NoError(t)
		gt.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".git", "objects"), 0755))
		gt.NoError(t, os.WriteFile(filepath.Join(tmpDir, "main.go"), []byte("package main"), 0644))

		safe.RemoveAll(ctx, tmpDir)

		_, err := os.Stat(tmpDir)
		gt.True(t, os.IsNotExist(err))
	})

	t.Run("remove non-existing directory", func(t *testing.T) {
		safe.RemoveAll(ctx, "/nonexistent/directory")
	})
}

type errorCloser struct{}

func (e *errorCloser) Close() error {
	return io.ErrUnexpectedEOF
}

type eofCloser struct{}

func (e *eofCloser) Close() error {
	return io.EOF
}
