// Package aggregate turns raw findings into the grouped, range compressed shape reported to
// users. Grouping is keyed by identity, never by arrival order.
package aggregate

import (
	"maps"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
)

// Compress renders line numbers as comma separated ranges, e.g. [3 4 5 9] as "3-5, 9". The
// input may be unsorted and contain duplicates.
func Compress(lines []int) string {
	set := model.NewLineSet(lines...)
	sorted := set.Lines()

	var parts []string
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, strconv.Itoa(sorted[i]))
		} else {
			parts = append(parts, strconv.Itoa(sorted[i])+"-"+strconv.Itoa(sorted[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, ", ")
}

// HistoryGroups maps branch to short commit hash to the sorted base names of affected files.
type HistoryGroups map[types.BranchName]map[string][]string

// GroupHistory groups diff stream findings by branch, then by commit.
func GroupHistory(findings []model.Finding) HistoryGroups {
	groups := make(HistoryGroups)
	for _, f := range findings {
		var short string
		if f.Commit != nil {
			short = f.Commit.Short()
		}

		commits, ok := groups[f.Branch]
		if !ok {
			commits = make(map[string][]string)
			groups[f.Branch] = commits
		}

		name := path.Base(f.FilePath)
		if !slices.Contains(commits[short], name) {
			commits[short] = append(commits[short], name)
		}
	}

	for _, commits := range groups {
		for _, names := range commits {
			slices.Sort(names)
		}
	}
	return groups
}

// FileLines is one file of a snapshot with its compressed line ranges.
type FileLines struct {
	File  string `json:"file"`
	Lines string `json:"lines"`
}

// GroupTree compresses the findings of each branch snapshot. Files without lines and
// branches without files are dropped. Files are sorted by path.
func GroupTree(trees map[types.BranchName]*model.ScanResult) map[types.BranchName][]FileLines {
	out := make(map[types.BranchName][]FileLines)
	for name, result := range trees {
		files := Files(result)
		if len(files) > 0 {
			out[name] = files
		}
	}
	return out
}

// Files compresses the findings of one snapshot, sorted by path.
func Files(result *model.ScanResult) []FileLines {
	if result == nil {
		return nil
	}
	var files []FileLines
	for _, p := range result.Paths() {
		ranges := Compress(result.Findings[p].Lines.Lines())
		if ranges == "" {
			continue
		}
		files = append(files, FileLines{File: p, Lines: ranges})
	}
	return files
}

// MergeFindings combines findings of the same branch, commit and file and deduplicates their
// line numbers. The result is sorted by branch, commit hash and path.
func MergeFindings(findings []model.Finding) []model.Finding {
	merged := make(map[string]*model.Finding)
	for _, f := range findings {
		key := f.Key()
		if prev, ok := merged[key]; ok {
			prev.Lines.Merge(f.Lines)
			continue
		}
		copied := f
		copied.Lines = model.NewLineSet(f.Lines.Lines()...)
		merged[key] = &copied
	}

	out := make([]model.Finding, 0, len(merged))
	for _, key := range slices.Sorted(maps.Keys(merged)) {
		out = append(out, *merged[key])
	}
	return out
}
