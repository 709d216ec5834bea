package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// IncomeRecord is one posted row in the permanent income ledger.
type IncomeRecord struct {
	TransactionID string // back-reference to the source bank transaction
	Date          time.Time
	DonorName     string
	Code          string
	Label         string
	Amount        decimal.Decimal
	Note          string
}

// ExpenseRecord is one posted row in the permanent expense ledger.
type ExpenseRecord struct {
	TransactionID string
	Date          time.Time
	Vendor        string
	Description   string
	AccountCode   string
	Label         string
	Amount        decimal.Decimal
	Note          string
}

// IncomeLedger appends finalized records to the permanent income store.
// The store supports only single-row appends; there is no batch atomicity.
type IncomeLedger interface {
	Append(ctx context.Context, rec IncomeRecord) error
	List(ctx context.Context) ([]IncomeRecord, error)
}

// ExpenseLedger appends finalized records to the permanent expense store.
type ExpenseLedger interface {
	Append(ctx context.Context, rec ExpenseRecord) error
	List(ctx context.Context) ([]ExpenseRecord, error)
}
