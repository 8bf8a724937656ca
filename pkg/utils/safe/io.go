package safe

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/m-mizutani/langaudit/pkg/utils/logging"
)

// Close safely closes the resource and logs error if any
func Close(ctx context.Context, closer io.Closer) {
	if closer != nil {
		if err := closer.Close(); err != nil {
			if err == io.EOF {
				return
			}
			logging.From(ctx).Warn("Fail to close resource", slog.Any("error", err))
		}
	}
}

// Remove safely removes the file and logs error if any
func Remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.From(ctx).Warn("Fail to remove file", slog.Any("error", err), slog.String("path", path))
	}
}

// RemoveAll safely removes the directory and logs error if any
func RemoveAll(ctx context.Context, path string) {
	if err := os.RemoveAll(path); err != nil {
		logging.From(ctx).Warn("Fail to remove directory", slog.Any("error", err), slog.String("path", path))
	}
}
