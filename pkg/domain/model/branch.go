package model

import (
	"time"

	"github.com/m-mizutani/langaudit/pkg/domain/types"
)

// Branch is a branch discovered in a repository. Name is the short name ("main"), Ref is
// the full reference used for git queries ("refs/remotes/origin/main").
type Branch struct {
	Name           types.BranchName `json:"name"`
	Ref            string           `json:"ref"`
	Hash           types.CommitHash `json:"hash,omitempty"`
	LastCommitDate time.Time        `json:"last_commit_date,omitzero"`
	Active         bool             `json:"active"`
}

// Commit is identified while parsing a patch stream. Date is zero when the stream does not
// carry one.
type Commit struct {
	Hash types.CommitHash `json:"hash"`
	Date time.Time        `json:"date,omitzero"`
}

func (x Commit) Short() string {
	return x.Hash.Short()
}
