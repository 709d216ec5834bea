package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by stores when no row exists for a key.
var ErrNotFound = errors.New("not found")

// ErrExists is returned by stores when inserting a row whose key is taken.
var ErrExists = errors.New("already exists")

// ValidationError describes one malformed input row or draft. A validation
// failure rejects only the item it names, never the rest of the batch.
type ValidationError struct {
	Ref         string // transaction id, or "row N" during import
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s [%s]: %s", e.Field, e.Ref, e.Description)
}

// ConflictError is a guarded state-transition failure: the row was not in
// the expected state, usually because a concurrent commit got there first.
// Callers recover by dropping the item from the current batch.
type ConflictError struct {
	TransactionID string
	Expected      TxState
	Actual        TxState
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("transaction %s is %s, expected %s", e.TransactionID, e.Actual, e.Expected)
}

// RuleError reports a rule that could not be used (e.g. an invalid regex).
// The rule is disabled for the run; matching continues with the rest.
type RuleError struct {
	RuleID  string
	Pattern string
	Err     error
}

func (e RuleError) Error() string {
	return fmt.Sprintf("rule %s (pattern %q) disabled: %v", e.RuleID, e.Pattern, e.Err)
}

func (e RuleError) Unwrap() error { return e.Err }

// PartialWriteError reports a commit where some ledger posts succeeded and
// some failed. Failed rows remain in the matched state so the caller can
// retry exactly that subset.
type PartialWriteError struct {
	Posted []string
	Failed []string
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial commit: %d posted, %d failed (%s)",
		len(e.Posted), len(e.Failed), strings.Join(e.Failed, ", "))
}

// FatalConfigError means the rule/configuration store was unreachable at
// the start of a run. The run aborts before any transaction is touched.
type FatalConfigError struct {
	Source string
	Err    error
}

func (e FatalConfigError) Error() string {
	return fmt.Sprintf("configuration source %s unreachable: %v", e.Source, e.Err)
}

func (e FatalConfigError) Unwrap() error { return e.Err }
