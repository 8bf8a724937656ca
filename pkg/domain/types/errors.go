package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidOption   = goerr.New("invalid option")
	ErrNoBranches      = goerr.New("no branches found")
	ErrCommandFailed   = goerr.New("git command failed")
	ErrCommandTimeout  = goerr.New("git command timed out")
	ErrDiscoveryFailed = goerr.New("repository discovery failed")
	ErrInvalidGitData  = goerr.New("invalid git data")

	ErrFindingsDetected = goerr.New("non-target script detected")
)
