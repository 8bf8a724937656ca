// Package diffstream extracts findings from the patch history of one branch as printed by
// `git log -p --format=%H%x09%cI`. The stream is folded line by line over an explicit State.
package diffstream

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/core/classify"
	"github.com/m-mizutani/langaudit/pkg/core/lines"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
)

type Phase int

const (
	// AwaitCommit is the initial phase, before any commit line was seen.
	AwaitCommit Phase = iota
	// AwaitFile is inside a commit. File is set while added lines of a tracked file may
	// still produce a finding.
	AwaitFile
)

func (x Phase) String() string {
	switch x {
	case AwaitCommit:
		return "await_commit"
	case AwaitFile:
		return "await_file"
	}
	return "unknown"
}

// State is the parser context between two lines. InHunk is set once the first hunk of the
// current file diff started; from then on a line beginning with "+++" is added content.
type State struct {
	Phase  Phase
	Commit *model.Commit
	File   string
	InHunk bool
}

// Excluder decides whether changes of a path are ignored. *filter.Filter implements it.
type Excluder interface {
	Excluded(path string) bool
}

var (
	diffHeader = []byte("diff --git ")
	hunkHeader = []byte("@@")
	addedLine  = []byte("+")
	addHeader  = []byte("+++")
)

// Step consumes one line. It returns the next state and, when the line completes one, a
// finding without branch. At most one finding is produced per file per commit.
func Step(s State, line []byte, ex Excluder) (State, *model.Finding) {
	if commit, ok := parseCommitLine(line); ok {
		return State{Phase: AwaitFile, Commit: commit}, nil
	}

	if s.Phase != AwaitFile {
		return s, nil
	}

	switch {
	case bytes.HasPrefix(line, diffHeader):
		s.InHunk = false
		target, ok := parseDiffHeader(line)
		if !ok || (ex != nil && ex.Excluded(target)) {
			s.File = ""
			return s, nil
		}
		s.File = target
		return s, nil

	case !s.InHunk && bytes.HasPrefix(line, hunkHeader):
		s.InHunk = true
		return s, nil

	case !s.InHunk && bytes.HasPrefix(line, addHeader):
		return s, nil

	case s.File != "" && bytes.HasPrefix(line, addedLine):
		content := line[1:]
		if classify.IsBinary(content) {
			s.File = ""
			return s, nil
		}
		if !classify.ContainsNonTargetScriptBytes(content) {
			return s, nil
		}

		finding := &model.Finding{
			FilePath: s.File,
			Commit:   s.Commit,
		}
		s.File = ""
		return s, finding
	}

	return s, nil
}

const ctxCheckInterval = 1024

// Scan folds the whole stream and returns the findings of branch in stream order. A read
// error aborts the scan of this branch only.
func Scan(ctx context.Context, r io.Reader, branch types.BranchName, ex Excluder) ([]model.Finding, error) {
	var (
		state    State
		findings []model.Finding
		n        int
	)

	for line, err := range lines.All(r) {
		if err != nil {
			return findings, goerr.Wrap(err, "failed to read patch stream", goerr.V("branch", branch))
		}

		n++
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return findings, goerr.Wrap(err, "patch stream scan interrupted", goerr.V("branch", branch))
			}
		}

		var finding *model.Finding
		state, finding = Step(state, line, ex)
		if finding != nil {
			finding.Branch = branch
			findings = append(findings, *finding)
		}
	}

	return findings, nil
}

// parseCommitLine accepts a full SHA-1 or SHA-256 hash, optionally followed by a TAB and the
// ISO 8601 committer date.
func parseCommitLine(line []byte) (*model.Commit, bool) {
	hash, date, hasDate := bytes.Cut(line, []byte("\t"))
	if !isFullHash(hash) {
		return nil, false
	}

	commit := &model.Commit{Hash: types.CommitHash(hash)}
	if hasDate {
		if t, err := time.Parse(time.RFC3339, string(bytes.TrimSpace(date))); err == nil {
			commit.Date = t
		}
	}
	return commit, true
}

func isFullHash(b []byte) bool {
	if len(b) != 40 && len(b) != 64 {
		return false
	}
	for _, c := range b {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// parseDiffHeader returns the post-image path of a `diff --git a/<p> b/<p>` line. Paths with
// special characters are C-quoted by git. When both halves name the same path the header is
// split in the middle, so a path containing " b/" is kept whole. Renames fall back to the
// last " b/" separator.
func parseDiffHeader(line []byte) (string, bool) {
	rest := string(line[len(diffHeader):])

	if len(rest)%2 == 1 {
		half := len(rest) / 2
		if rest[half] == ' ' {
			pre, okPre := headerPath(rest[:half], "a/")
			post, okPost := headerPath(rest[half+1:], "b/")
			if okPre && okPost && pre == post {
				return post, true
			}
		}
	}

	if strings.HasSuffix(rest, `"`) {
		idx := strings.LastIndex(rest, ` "b/`)
		if idx < 0 {
			return "", false
		}
		return headerPath(rest[idx+1:], "b/")
	}

	idx := strings.LastIndex(rest, " b/")
	if idx < 0 || idx+3 >= len(rest) {
		return "", false
	}
	return rest[idx+3:], true
}

// headerPath strips prefix from one side of a diff header, unquoting it first when quoted.
func headerPath(side, prefix string) (string, bool) {
	if strings.HasPrefix(side, `"`) {
		unquoted, err := strconv.Unquote(side)
		if err != nil {
			return "", false
		}
		side = unquoted
	}
	if !strings.HasPrefix(side, prefix) || len(side) == len(prefix) {
		return "", false
	}
	return side[len(prefix):], true
}
