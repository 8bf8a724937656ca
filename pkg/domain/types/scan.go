package types

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type (
	BranchName string
	CommitHash string
	RunID      string

	// Secret is a credential value such as an access token. It never renders in logs.
	Secret string
)

func NewRunID() RunID {
	return RunID(uuid.NewString())
}

// ShortHashLength is the length of abbreviated commit hashes in reports.
const ShortHashLength = 7

func (x CommitHash) Short() string {
	if len(x) <= ShortHashLength {
		return string(x)
	}
	return string(x[:ShortHashLength])
}

func (x Secret) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x Secret) String() string {
	return "***********"
}

// Strategy selects how branch history is scanned.
type Strategy string

const (
	// StrategyStreaming parses `git log -p` output and never touches the working tree.
	StrategyStreaming Strategy = "streaming"
	// StrategyCheckout checks out every branch into the shared working tree and scans files.
	StrategyCheckout Strategy = "checkout"
)

func (x Strategy) Validate() error {
	switch x {
	case StrategyStreaming, StrategyCheckout:
		return nil
	}
	return goerr.Wrap(ErrInvalidOption, "unknown strategy, should be 'streaming' or 'checkout'", goerr.V("strategy", x))
}

type SkipReason string

const (
	SkipOversized SkipReason = "oversized"
	SkipBinary    SkipReason = "binary"
)

type FailureKind string

const (
	FailureProject FailureKind = "project"
	FailureBranch  FailureKind = "branch"
	FailureGroup   FailureKind = "group"
)

const (
	DefaultRecency        = 2 * 365 * 24 * time.Hour
	DefaultBatchWidth     = 10
	DefaultMaxFileSize    = int64(2) << 30
	DefaultFileWorkers    = 32
	DefaultCommandTimeout = 10 * time.Minute
)
