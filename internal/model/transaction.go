package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxState represents the lifecycle state of an imported bank transaction.
type TxState string

const (
	StatePending    TxState = "pending"
	StateSaved      TxState = "saved"
	StateMatched    TxState = "matched"
	StateConfirmed  TxState = "confirmed"
	StateSuppressed TxState = "suppressed"
)

// Terminal reports whether no further transitions are allowed out of s.
func (s TxState) Terminal() bool {
	return s == StateConfirmed || s == StateSuppressed
}

// Workable reports whether a matching run may pick up a transaction in s.
func (s TxState) Workable() bool {
	return s == StatePending || s == StateSaved
}

// BankTransaction represents one bank statement row held in the
// transaction store.
type BankTransaction struct {
	ID               string // natural key, see internal/id
	TransactionDate  time.Time
	ValueDate        time.Time // settlement date used for ledger posting
	Withdrawal       decimal.Decimal
	Deposit          decimal.Decimal
	Balance          decimal.Decimal
	Description      string
	Detail           string
	Memo             string
	State            TxState
	SuppressedReason string
}

// IsDeposit reports whether the row is an income candidate. Exactly one of
// withdrawal/deposit is nonzero per row.
func (t BankTransaction) IsDeposit() bool {
	return t.Deposit.IsPositive()
}

// Amount returns whichever of withdrawal/deposit is set.
func (t BankTransaction) Amount() decimal.Decimal {
	if t.IsDeposit() {
		return t.Deposit
	}
	return t.Withdrawal
}
