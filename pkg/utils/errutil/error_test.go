package errutil_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/errutil"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
)

func TestHandleError(t *testing.T) {
	t.Run("handle error with context", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

		errutil.HandleError(ctx, "scan aborted", goerr.New("boom", goerr.V("repo", "app")))
		gt.S(t, buf.String()).Contains("scan aborted")
	})

	t.Run("nil error is ignored", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

		errutil.HandleError(ctx, "test message", nil)
		gt.V(t, buf.Len()).Equal(0)
	})
}

func TestFailure(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	f := errutil.Failure(ctx, types.FailureProject, "group/app", "git@example.com:group/app.git", errors.New("clone failed"))
	gt.V(t, f.Kind).Equal(types.FailureProject)
	gt.V(t, f.Name).Equal("group/app")
	gt.V(t, f.URL).Equal("git@example.com:group/app.git")
	gt.V(t, f.Error).Equal("clone failed")
	gt.S(t, buf.String()).Contains(`"unit.name":"group/app"`)
}
