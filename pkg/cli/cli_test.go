package cli_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/cli"
	"github.com/m-mizutani/langaudit/pkg/controller/report"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
)

func setupDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(content), 0644))
	return dir
}

func TestInspect(t *testing.T) {
	t.Run("report file", func(t *testing.T) {
		dir := setupDir(t, "hello\n你好\n")
		output := filepath.Join(t.TempDir(), "result.json")

		gt.NoError(t, cli.New().Run([]string{"langaudit", "inspect", "--path", dir, "--output", output}))

		var doc report.RepoDocument
		raw := gt.R1(os.ReadFile(output)).NoError(t)
		gt.NoError(t, json.Unmarshal(raw, &doc))
		gt.A(t, doc.WorkingTree).Length(1)
		gt.V(t, doc.WorkingTree[0].File).Equal("notes.txt")
		gt.V(t, doc.WorkingTree[0].Lines).Equal("2")
	})

	t.Run("fail on findings", func(t *testing.T) {
		dir := setupDir(t, "안녕하세요\n")
		err := cli.New().Run([]string{"langaudit", "inspect", "-p", dir, "--fail-on-findings"})
		gt.True(t, errors.Is(err, types.ErrFindingsDetected))
	})

	t.Run("clean directory passes", func(t *testing.T) {
		dir := setupDir(t, "hello\n")
		gt.NoError(t, cli.New().Run([]string{"langaudit", "inspect", "-p", dir, "--fail-on-findings"}))
	})

	t.Run("invalid option", func(t *testing.T) {
		dir := setupDir(t, "hello\n")
		err := cli.New().Run([]string{"langaudit", "inspect", "-p", dir, "--strategy", "bogus"})
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})
}

func TestInspectURLs(t *testing.T) {
	t.Run("nothing to inspect", func(t *testing.T) {
		err := cli.New().Run([]string{"langaudit", "inspect-urls", "--output-dir", t.TempDir()})
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})

	t.Run("failed clone is written to failure file", func(t *testing.T) {
		outDir := t.TempDir()
		missing := filepath.Join(t.TempDir(), "missing")

		gt.NoError(t, cli.New().Run([]string{
			"langaudit", "inspect-urls",
			"--url", missing,
			"--output-dir", outDir,
			"--work-dir", t.TempDir(),
		}))

		raw := gt.R1(os.ReadFile(filepath.Join(outDir, report.FailuresFileName))).NoError(t)
		gt.S(t, string(raw)).Contains(missing)

		batch := gt.R1(os.ReadFile(filepath.Join(outDir, report.BatchFileName(0)))).NoError(t)
		gt.S(t, string(batch)).Contains("[]")
	})
}
