package tree_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/core/filter"
	"github.com/m-mizutani/langaudit/pkg/core/tree"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	gt.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	gt.NoError(t, os.WriteFile(p, data, 0644))
}

func setupTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "main.go", []byte("package main\n\n// 주석\nfunc main() {}\n// 中文 and 한글\n"))
	writeFile(t, root, "clean.go", []byte("package main\n"))
	writeFile(t, root, ".hidden/notes.txt", []byte("メモ\n설명"))
	writeFile(t, root, ".git/config", []byte("# 설정\n"))
	writeFile(t, root, "node_modules/pkg/index.js", []byte("// 한글\n"))
	writeFile(t, root, "assets/logo.png", []byte("한글"))
	writeFile(t, root, "data.bin.txt", append([]byte("한글\n"), 0x00))
	return root
}

func TestFiles(t *testing.T) {
	root := setupTree(t)
	s := tree.New()

	collect := func() []string {
		var out []string
		for rel, err := range s.Files(root) {
			gt.NoError(t, err)
			out = append(out, rel)
		}
		slices.Sort(out)
		return out
	}

	want := []string{".hidden/notes.txt", "clean.go", "data.bin.txt", "main.go"}
	gt.V(t, collect()).Equal(want)

	t.Run("restartable", func(t *testing.T) {
		gt.V(t, collect()).Equal(want)
	})

	t.Run("early break", func(t *testing.T) {
		n := 0
		for range s.Files(root) {
			n++
			break
		}
		gt.V(t, n).Equal(1)
	})

	t.Run("missing root", func(t *testing.T) {
		var got error
		for _, err := range s.Files(filepath.Join(root, "missing")) {
			got = err
		}
		gt.Error(t, got)
	})
}

func TestScan(t *testing.T) {
	root := setupTree(t)
	result := gt.R1(tree.New().Scan(context.Background(), root)).NoError(t)

	gt.V(t, result.Paths()).Equal([]string{".hidden/notes.txt", "main.go"})
	gt.V(t, result.Findings["main.go"].Lines.Lines()).Equal([]int{3, 5})
	gt.V(t, result.Findings[".hidden/notes.txt"].Lines.Lines()).Equal([]int{2})

	gt.A(t, result.Skipped).Length(1)
	gt.V(t, result.Skipped[0].FilePath).Equal("data.bin.txt")
	gt.V(t, result.Skipped[0].Reason).Equal(types.SkipBinary)
	gt.A(t, result.ReadFailures).Length(0)
}

func TestScanIdempotent(t *testing.T) {
	root := setupTree(t)
	s := tree.New(tree.WithWorkers(2))

	first := gt.R1(s.Scan(context.Background(), root)).NoError(t)
	second := gt.R1(s.Scan(context.Background(), root)).NoError(t)

	gt.V(t, first.Paths()).Equal(second.Paths())
	for _, p := range first.Paths() {
		gt.V(t, first.Findings[p].Lines.Lines()).Equal(second.Findings[p].Lines.Lines())
	}
}

func TestScanEveryLine(t *testing.T) {
	root := t.TempDir()

	var b strings.Builder
	var want []int
	for i := 1; i <= 500; i++ {
		if i%7 == 0 {
			b.WriteString("// 한국어 라인\n")
			want = append(want, i)
		} else {
			b.WriteString("// english line\n")
		}
	}
	writeFile(t, root, "big.txt", []byte(b.String()))

	result := gt.R1(tree.New().Scan(context.Background(), root)).NoError(t)
	gt.V(t, result.Findings["big.txt"].Lines.Lines()).Equal(want)
}

func TestScanOversized(t *testing.T) {
	t.Run("size ceiling option", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "large.txt", []byte(strings.Repeat("한", 100)))
		writeFile(t, root, "small.txt", []byte("한"))

		result := gt.R1(tree.New(tree.WithMaxFileSize(10)).Scan(context.Background(), root)).NoError(t)
		gt.V(t, result.Paths()).Equal([]string{"small.txt"})
		gt.V(t, result.Skipped).Equal([]model.SkipRecord{
			{FilePath: "large.txt", Reason: types.SkipOversized, Size: 300},
		})
	})

	t.Run("2 GiB + 1 byte sparse file is never read", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("sparse files are not portable")
		}
		root := t.TempDir()
		fd := gt.R1(os.Create(filepath.Join(root, "huge.txt"))).NoError(t)
		gt.NoError(t, fd.Truncate(types.DefaultMaxFileSize+1))
		gt.NoError(t, fd.Close())
		// unreadable: reading it would fail the test with a read failure
		gt.NoError(t, os.Chmod(filepath.Join(root, "huge.txt"), 0))

		result := gt.R1(tree.New().Scan(context.Background(), root)).NoError(t)
		gt.A(t, result.ReadFailures).Length(0)
		gt.V(t, result.Skipped).Equal([]model.SkipRecord{
			{FilePath: "huge.txt", Reason: types.SkipOversized, Size: types.DefaultMaxFileSize + 1},
		})
	})
}

func TestScanReadFailure(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	writeFile(t, root, "locked.txt", []byte("한글"))
	writeFile(t, root, "open.txt", []byte("한글"))
	gt.NoError(t, os.Chmod(filepath.Join(root, "locked.txt"), 0))

	result := gt.R1(tree.New().Scan(context.Background(), root)).NoError(t)
	gt.V(t, result.Paths()).Equal([]string{"open.txt"})
	gt.A(t, result.ReadFailures).Length(1)
	gt.V(t, result.ReadFailures[0].FilePath).Equal("locked.txt")
}

func TestScanWithFilter(t *testing.T) {
	root := setupTree(t)
	f := gt.R1(filter.New(filter.WithPaths("**/.hidden/**"))).NoError(t)

	result := gt.R1(tree.New(tree.WithFilter(f)).Scan(context.Background(), root)).NoError(t)
	gt.V(t, result.Paths()).Equal([]string{"main.go"})
}

func TestScanCancelled(t *testing.T) {
	root := setupTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tree.New().Scan(ctx, root)
	gt.Error(t, err)
}
