package model

import (
	"encoding/json"
	"slices"

	"github.com/m-mizutani/langaudit/pkg/domain/types"
)

// LineSet is an ascending set of unique 1-based line numbers.
type LineSet struct {
	lines []int
}

func NewLineSet(lines ...int) LineSet {
	var s LineSet
	for _, n := range lines {
		s.Add(n)
	}
	return s
}

// Add inserts n keeping the set sorted. Appending in ascending order, the common case while
// streaming a file, does not shift the slice.
func (x *LineSet) Add(n int) {
	if n <= 0 {
		return
	}
	if k := len(x.lines); k == 0 || x.lines[k-1] < n {
		x.lines = append(x.lines, n)
		return
	}
	i, found := slices.BinarySearch(x.lines, n)
	if found {
		return
	}
	x.lines = slices.Insert(x.lines, i, n)
}

func (x *LineSet) Merge(other LineSet) {
	for _, n := range other.lines {
		x.Add(n)
	}
}

// Lines returns a copy of the line numbers in ascending order.
func (x LineSet) Lines() []int {
	return slices.Clone(x.lines)
}

func (x LineSet) Len() int {
	return len(x.lines)
}

func (x LineSet) MarshalJSON() ([]byte, error) {
	if x.lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(x.lines)
}

func (x LineSet) Contains(n int) bool {
	_, found := slices.BinarySearch(x.lines, n)
	return found
}

// Finding records that a file contains non-target script. In history mode it is scoped to a
// commit and carries no line numbers; in tree mode Lines lists every offending line.
type Finding struct {
	FilePath string           `json:"file"`
	Lines    LineSet          `json:"lines,omitzero"`
	Commit   *Commit          `json:"commit,omitempty"`
	Branch   types.BranchName `json:"branch,omitempty"`
}

// Key identifies the finding's scope: branch, commit and file.
func (x Finding) Key() string {
	var hash types.CommitHash
	if x.Commit != nil {
		hash = x.Commit.Hash
	}
	return string(x.Branch) + "\x00" + string(hash) + "\x00" + x.FilePath
}
