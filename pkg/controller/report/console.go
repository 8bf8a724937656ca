package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
)

type Console struct {
	w       io.Writer
	heading *color.Color
	alert   *color.Color
	ok      *color.Color
}

type ConsoleOption func(*Console)

// WithoutColor disables ANSI colors regardless of the terminal.
func WithoutColor() ConsoleOption {
	return func(x *Console) {
		x.heading.DisableColor()
		x.alert.DisableColor()
		x.ok.DisableColor()
	}
}

func NewConsole(w io.Writer, options ...ConsoleOption) *Console {
	x := &Console{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		alert:   color.New(color.FgRed, color.Bold),
		ok:      color.New(color.FgGreen),
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	return tbl
}

// Repo prints every section of one repository report.
func (x *Console) Repo(r *model.RepoReport) {
	doc := NewRepoDocument(r)

	title := doc.Name
	if doc.Branch != "" {
		title += " (" + doc.Branch + ")"
	}
	x.heading.Fprintf(x.w, "== %s ==\n", title)

	x.workingTree(doc)
	if r.Branches != nil {
		x.history(doc)
		x.branchTrees(doc)
	}
	x.skipped(doc)
	x.Failures(doc.Failures)

	if !doc.HasFindings() {
		x.ok.Fprintln(x.w, "No non-target script found")
	}
	fmt.Fprintln(x.w)
}

func (x *Console) workingTree(doc *RepoDocument) {
	if len(doc.WorkingTree) == 0 {
		return
	}
	x.alert.Fprintf(x.w, "Working tree: %d file(s)\n", len(doc.WorkingTree))

	tbl := newTable()
	tbl.AppendHeader(table.Row{"File", "Lines"})
	for _, f := range doc.WorkingTree {
		tbl.AppendRow(table.Row{f.File, f.Lines})
	}
	fmt.Fprintln(x.w, tbl.Render())
}

func (x *Console) history(doc *RepoDocument) {
	if len(doc.History) == 0 {
		return
	}
	x.alert.Fprintf(x.w, "History: %d branch(es)\n", len(doc.History))

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Branch", "Commit", "Files"})
	for _, name := range sortedBranches(doc.History) {
		commits := doc.History[name]
		hashes := make([]string, 0, len(commits))
		for hash := range commits {
			hashes = append(hashes, hash)
		}
		slices.Sort(hashes)
		for _, hash := range hashes {
			tbl.AppendRow(table.Row{name, hash, strings.Join(commits[hash], ", ")})
		}
	}
	fmt.Fprintln(x.w, tbl.Render())
}

func (x *Console) branchTrees(doc *RepoDocument) {
	if len(doc.BranchTrees) == 0 {
		return
	}
	x.alert.Fprintf(x.w, "Branch snapshots: %d branch(es)\n", len(doc.BranchTrees))

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Branch", "File", "Lines"})
	for _, name := range sortedBranches(doc.BranchTrees) {
		for _, f := range doc.BranchTrees[name] {
			tbl.AppendRow(table.Row{name, f.File, f.Lines})
		}
	}
	fmt.Fprintln(x.w, tbl.Render())
}

func (x *Console) skipped(doc *RepoDocument) {
	if len(doc.Skipped) == 0 && len(doc.ReadFailures) == 0 {
		return
	}
	x.heading.Fprintf(x.w, "Not scanned: %d file(s)\n", len(doc.Skipped)+len(doc.ReadFailures))

	tbl := newTable()
	tbl.AppendHeader(table.Row{"File", "Reason", "Size"})
	for _, s := range doc.Skipped {
		tbl.AppendRow(table.Row{s.FilePath, s.Reason, humanize.IBytes(uint64(s.Size))})
	}
	for _, f := range doc.ReadFailures {
		tbl.AppendRow(table.Row{f.FilePath, f.Error, ""})
	}
	fmt.Fprintln(x.w, tbl.Render())
}

// Failures prints abandoned units. Nothing is printed for an empty list.
func (x *Console) Failures(failures []model.UnitFailure) {
	if len(failures) == 0 {
		return
	}
	x.alert.Fprintf(x.w, "Failures: %d\n", len(failures))

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Kind", "Name", "Error"})
	for _, f := range failures {
		tbl.AppendRow(table.Row{f.Kind, f.Name, f.Error})
	}
	fmt.Fprintln(x.w, tbl.Render())
}

// Fleet prints a per-project summary followed by the failures of the whole run.
func (x *Console) Fleet(fleet *model.FleetReport) {
	x.heading.Fprintf(x.w, "== %d project(s) scanned ==\n", len(fleet.Projects))

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Project", "Working tree", "History commits", "Branch snapshots", "Failures"})
	var flagged int
	for _, p := range fleet.Projects {
		doc := NewRepoDocument(p)
		if doc.HasFindings() {
			flagged++
		}
		var commits int
		for _, c := range doc.History {
			commits += len(c)
		}
		tbl.AppendRow(table.Row{doc.Name, len(doc.WorkingTree), commits, len(doc.BranchTrees), len(doc.Failures)})
	}
	tbl.AppendFooter(table.Row{"Total", "", "", "", humanize.Comma(int64(len(fleet.Failures)))})
	fmt.Fprintln(x.w, tbl.Render())

	if flagged > 0 {
		x.alert.Fprintf(x.w, "%d project(s) contain non-target script\n", flagged)
	} else {
		x.ok.Fprintln(x.w, "No non-target script found")
	}
	x.Failures(fleet.Failures)
}
