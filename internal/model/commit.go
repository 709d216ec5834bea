package model

import "github.com/shopspring/decimal"

// CommitResult reports the outcome of one commit invocation. Income and
// expense are independently committable, so each side carries its own
// success flag and counts.
type CommitResult struct {
	IncomeSuccess  bool
	IncomeCount    int
	IncomeTotal    decimal.Decimal
	ExpenseSuccess bool
	ExpenseCount   int
	ExpenseTotal   decimal.Decimal

	SuppressedCount int

	// AlreadyConfirmed counts drafts dropped because their source
	// transaction was no longer in the matched state.
	AlreadyConfirmed int

	// FailedTransactionIDs lists source transactions whose ledger post
	// failed. Those rows remain matched; retrying with the original batch
	// posts only this remainder.
	FailedTransactionIDs []string
}

// MatchReport carries per-run counters from a matching run.
type MatchReport struct {
	RunID         string
	Processed     int
	IncomeDrafts  int
	ExpenseDrafts int
	Fallback      int // unmatched deposits classified with the fallback code
	Review        int
	Suppressed    int
	DisabledRules int
}
