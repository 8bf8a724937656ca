package model

import (
	"maps"
	"slices"
	"time"

	"github.com/m-mizutani/langaudit/pkg/domain/types"
)

// SkipRecord is a file that was deliberately not scanned.
type SkipRecord struct {
	FilePath string           `json:"file"`
	Reason   types.SkipReason `json:"reason"`
	Size     int64            `json:"size"`
}

// ReadFailure is a file that could not be opened or read.
type ReadFailure struct {
	FilePath string `json:"file"`
	Error    string `json:"error"`
}

// ScanResult is the outcome of scanning one file tree snapshot.
type ScanResult struct {
	Findings     map[string]*Finding `json:"findings"`
	Skipped      []SkipRecord        `json:"skipped,omitempty"`
	ReadFailures []ReadFailure       `json:"read_failures,omitempty"`
}

func NewScanResult() *ScanResult {
	return &ScanResult{
		Findings: make(map[string]*Finding),
	}
}

// Add records an offending line of path.
func (x *ScanResult) Add(path string, line int) {
	f, ok := x.Findings[path]
	if !ok {
		f = &Finding{FilePath: path}
		x.Findings[path] = f
	}
	f.Lines.Add(line)
}

// AddFinding merges a whole file finding into the result.
func (x *ScanResult) AddFinding(finding Finding) {
	if finding.Lines.Len() == 0 {
		return
	}
	f, ok := x.Findings[finding.FilePath]
	if !ok {
		copied := finding
		copied.Lines = NewLineSet(finding.Lines.Lines()...)
		x.Findings[finding.FilePath] = &copied
		return
	}
	f.Lines.Merge(finding.Lines)
}

// Merge folds other into x. Line numbers of the same file are deduplicated.
func (x *ScanResult) Merge(other *ScanResult) {
	if other == nil {
		return
	}
	for _, path := range other.Paths() {
		x.AddFinding(*other.Findings[path])
	}
	x.Skipped = append(x.Skipped, other.Skipped...)
	x.ReadFailures = append(x.ReadFailures, other.ReadFailures...)
}

// Paths returns the paths with findings in lexical order.
func (x *ScanResult) Paths() []string {
	return slices.Sorted(maps.Keys(x.Findings))
}

func (x *ScanResult) Empty() bool {
	return len(x.Findings) == 0
}

// BranchResult is the history scan outcome of one branch. History holds diff stream findings,
// Tree holds the snapshot findings of the checkout strategy.
type BranchResult struct {
	Branch  Branch      `json:"branch"`
	History []Finding   `json:"history,omitempty"`
	Tree    *ScanResult `json:"tree,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// UnitFailure is an abandoned unit of work (project, branch or discovery group).
type UnitFailure struct {
	Kind  types.FailureKind `json:"kind"`
	Name  string            `json:"name"`
	URL   string            `json:"url,omitempty"`
	Error string            `json:"error"`
}

// RepoReport is everything found in one repository.
type RepoReport struct {
	Name        string         `json:"name"`
	URL         string         `json:"url,omitempty"`
	Path        string         `json:"path"`
	Branch      string         `json:"branch,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	WorkingTree *ScanResult    `json:"working_tree,omitempty"`
	Branches    []BranchResult `json:"branches,omitempty"`
	Failures    []UnitFailure  `json:"failures,omitempty"`
}

// HistoryFindings flattens the diff stream findings of every branch.
func (x *RepoReport) HistoryFindings() []Finding {
	var out []Finding
	for _, b := range x.Branches {
		out = append(out, b.History...)
	}
	return out
}

// BranchTrees returns the snapshot result of every branch scanned by checkout.
func (x *RepoReport) BranchTrees() map[types.BranchName]*ScanResult {
	out := make(map[types.BranchName]*ScanResult)
	for _, b := range x.Branches {
		if b.Tree != nil {
			out[b.Branch.Name] = b.Tree
		}
	}
	return out
}

// Credential authenticates clones over HTTPS.
type Credential struct {
	Username string       `json:"username"`
	Password types.Secret `json:"-" masq:"secret"`
}

// RepositoryRef is a repository to be cloned and scanned.
type RepositoryRef struct {
	Name       string      `json:"name"`
	URL        string      `json:"url"`
	Credential *Credential `json:"-"`
}

// Discovery is the output of a hosting API walk. Failures lists groups or owners that could
// not be listed; the repositories found elsewhere are still returned.
type Discovery struct {
	Repositories []RepositoryRef
	Failures     []UnitFailure
}

// FleetReport is the outcome of a multi-repository run.
type FleetReport struct {
	Projects []*RepoReport
	Failures []UnitFailure
}
