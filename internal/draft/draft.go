package draft

import (
	"strings"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// CodeLabeler resolves a classification code to its display name.
// accounts.Service implements it.
type CodeLabeler interface {
	Label(code string) string
}

// Builder converts matched transactions into editable ledger drafts. The
// transform is pure: it never touches the source transaction or any store.
type Builder struct {
	labels CodeLabeler
}

// NewBuilder creates a draft Builder.
func NewBuilder(labels CodeLabeler) *Builder {
	return &Builder{labels: labels}
}

// Income projects a matched deposit into income-ledger shape. code is the
// offering code from the match outcome (or the fallback code).
func (b *Builder) Income(tx model.BankTransaction, code string) model.IncomeDraft {
	return model.IncomeDraft{
		TransactionID: tx.ID,
		Date:          tx.ValueDate,
		DonorName:     strings.TrimSpace(tx.Description),
		Amount:        tx.Deposit,
		Code:          code,
		Label:         b.labels.Label(code),
		Note:          strings.TrimSpace(tx.Memo),
	}
}

// Expense projects a matched withdrawal into expense-ledger shape.
func (b *Builder) Expense(tx model.BankTransaction, code string) model.ExpenseDraft {
	return model.ExpenseDraft{
		TransactionID: tx.ID,
		Date:          tx.ValueDate,
		Vendor:        strings.TrimSpace(tx.Description),
		Description:   strings.TrimSpace(tx.Detail),
		Amount:        tx.Withdrawal,
		AccountCode:   code,
		Label:         b.labels.Label(code),
		Note:          strings.TrimSpace(tx.Memo),
	}
}

// Suppression records a transaction excluded from both ledgers.
func Suppression(tx model.BankTransaction, reason string) model.SuppressionRecord {
	return model.SuppressionRecord{
		TransactionID: tx.ID,
		Reason:        reason,
		Date:          tx.ValueDate,
		Amount:        tx.Amount(),
		Description:   strings.TrimSpace(tx.Description),
	}
}
