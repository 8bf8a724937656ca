// Package report renders scan results for people (console tables) and for machines (JSON
// files).
package report

import (
	"slices"
	"time"

	"github.com/m-mizutani/langaudit/pkg/core/aggregate"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
)

// RepoDocument is the JSON shape of one repository. Findings are grouped and line numbers
// compressed into ranges.
type RepoDocument struct {
	Name         string                                     `json:"name"`
	URL          string                                     `json:"url,omitempty"`
	Branch       string                                     `json:"branch,omitempty"`
	StartedAt    time.Time                                  `json:"started_at"`
	WorkingTree  []aggregate.FileLines                      `json:"working_tree"`
	History      aggregate.HistoryGroups                    `json:"history,omitempty"`
	BranchTrees  map[types.BranchName][]aggregate.FileLines `json:"branch_trees,omitempty"`
	Skipped      []model.SkipRecord                         `json:"skipped,omitempty"`
	ReadFailures []model.ReadFailure                        `json:"read_failures,omitempty"`
	Failures     []model.UnitFailure                        `json:"failures,omitempty"`
}

func NewRepoDocument(r *model.RepoReport) *RepoDocument {
	doc := &RepoDocument{
		Name:        r.Name,
		URL:         r.URL,
		Branch:      r.Branch,
		StartedAt:   r.StartedAt,
		WorkingTree: aggregate.Files(r.WorkingTree),
		Failures:    r.Failures,
	}
	if doc.WorkingTree == nil {
		doc.WorkingTree = []aggregate.FileLines{}
	}
	if r.WorkingTree != nil {
		doc.Skipped = r.WorkingTree.Skipped
		doc.ReadFailures = r.WorkingTree.ReadFailures
	}
	if history := r.HistoryFindings(); len(history) > 0 {
		doc.History = aggregate.GroupHistory(history)
	}
	if trees := aggregate.GroupTree(r.BranchTrees()); len(trees) > 0 {
		doc.BranchTrees = trees
	}
	return doc
}

// HasFindings reports whether any working tree, history or branch snapshot finding exists.
func (x *RepoDocument) HasFindings() bool {
	return len(x.WorkingTree) > 0 || len(x.History) > 0 || len(x.BranchTrees) > 0
}

func sortedBranches[V any](m map[types.BranchName]V) []types.BranchName {
	names := make([]types.BranchName, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
