package errutil

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
)

// HandleError logs err and sends it to Sentry with the goerr values attached as extras.
func HandleError(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}
	capture(ctx, msg, err, nil)
}

// Failure reports an abandoned unit of work and returns it as a value so that callers can
// collect it instead of aborting sibling units.
func Failure(ctx context.Context, kind types.FailureKind, name, url string, err error) model.UnitFailure {
	failure := model.UnitFailure{
		Kind: kind,
		Name: name,
		URL:  url,
	}
	if err != nil {
		failure.Error = err.Error()
	}

	capture(ctx, fmt.Sprintf("%s failed", kind), err, map[string]string{
		"unit.kind": string(kind),
		"unit.name": name,
	})

	return failure
}

func capture(ctx context.Context, msg string, err error, tags map[string]string) {
	var evID *sentry.EventID
	if err != nil {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTags(tags)
			if goErr := goerr.Unwrap(err); goErr != nil {
				for k, v := range goErr.Values() {
					scope.SetExtra(fmt.Sprintf("%v", k), v)
				}
			}
		})
		evID = hub.CaptureException(err)
	}

	attrs := []any{"error", err}
	for k, v := range tags {
		attrs = append(attrs, k, v)
	}
	if evID != nil {
		attrs = append(attrs, "sentry.EventID", *evID)
	}
	logging.From(ctx).Error(msg, attrs...)
}
