package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
	"github.com/m-mizutani/langaudit/pkg/utils/safe"
)

const FailuresFileName = "failed-projects.json"

// BatchFileName is the result file of a fleet batch. index starts at 0, the file number at 1.
func BatchFileName(index int) string {
	return fmt.Sprintf("inspection-results-batch-%d.json", index+1)
}

func writeJSON(ctx context.Context, path string, v any) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return goerr.Wrap(err, "failed to create report file", goerr.V("path", path))
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		safe.Close(ctx, f)
		return goerr.Wrap(err, "failed to write report file", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close report file", goerr.V("path", path))
	}

	logging.From(ctx).Info("Report saved", slog.String("path", path))
	return nil
}

// WriteRepo saves the report of a single repository to path.
func WriteRepo(ctx context.Context, path string, r *model.RepoReport) error {
	return writeJSON(ctx, path, NewRepoDocument(r))
}

// Dir writes fleet results into one directory.
type Dir struct {
	path string
}

func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("path", path))
	}
	return &Dir{path: path}, nil
}

// WriteBatch saves one batch of reports. Its signature matches model.BatchHandler.
func (x *Dir) WriteBatch(ctx context.Context, index int, reports []*model.RepoReport) error {
	docs := make([]*RepoDocument, 0, len(reports))
	for _, r := range reports {
		docs = append(docs, NewRepoDocument(r))
	}
	return writeJSON(ctx, filepath.Join(x.path, BatchFileName(index)), docs)
}

// WriteFailures saves the failures of the run. No file is created when there is none.
func (x *Dir) WriteFailures(ctx context.Context, failures []model.UnitFailure) error {
	if len(failures) == 0 {
		return nil
	}
	return writeJSON(ctx, filepath.Join(x.path, FailuresFileName), failures)
}
