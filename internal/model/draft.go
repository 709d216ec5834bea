package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeDraft is the editable projection of a matched deposit into
// income-ledger shape. It exists only inside a pending commit request and
// never mutates its source transaction.
type IncomeDraft struct {
	TransactionID string
	Date          time.Time // value date of the source transaction
	DonorName     string
	Amount        decimal.Decimal
	Code          string // offering code
	Label         string // human-readable name for Code
	Note          string
}

// ExpenseDraft is the editable projection of a matched withdrawal into
// expense-ledger shape.
type ExpenseDraft struct {
	TransactionID string
	Date          time.Time
	Vendor        string
	Description   string
	Amount        decimal.Decimal
	AccountCode   string
	Label         string
	Note          string
}

// SuppressionRecord marks a transaction intentionally excluded from both
// ledgers. Retained for audit, never deleted.
type SuppressionRecord struct {
	TransactionID string
	Reason        string
	Date          time.Time
	Amount        decimal.Decimal
	Description   string
}

// ReviewItem is a withdrawal that matched no active rule, carrying ranked
// rule suggestions for human disambiguation.
type ReviewItem struct {
	Transaction BankTransaction
	Suggestions []RuleSuggestion
}
