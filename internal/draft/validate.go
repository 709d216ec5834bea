package draft

import (
	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// ValidateIncome checks an edited income draft before commit. A failing
// draft rejects only itself, never the batch.
func ValidateIncome(d model.IncomeDraft) []model.ValidationError {
	var errs []model.ValidationError

	if d.TransactionID == "" {
		errs = append(errs, model.ValidationError{Ref: "?", Field: "transactionId", Description: "missing source transaction reference"})
	}
	if d.Date.IsZero() {
		errs = append(errs, verr(d.TransactionID, "date", "missing date"))
	}
	if !d.Amount.IsPositive() {
		errs = append(errs, verr(d.TransactionID, "amount", "amount must be positive"))
	}
	if d.Code == "" {
		errs = append(errs, verr(d.TransactionID, "code", "missing offering code"))
	}
	return errs
}

// ValidateExpense checks an edited expense draft before commit.
func ValidateExpense(d model.ExpenseDraft) []model.ValidationError {
	var errs []model.ValidationError

	if d.TransactionID == "" {
		errs = append(errs, model.ValidationError{Ref: "?", Field: "transactionId", Description: "missing source transaction reference"})
	}
	if d.Date.IsZero() {
		errs = append(errs, verr(d.TransactionID, "date", "missing date"))
	}
	if !d.Amount.IsPositive() {
		errs = append(errs, verr(d.TransactionID, "amount", "amount must be positive"))
	}
	if d.AccountCode == "" {
		errs = append(errs, verr(d.TransactionID, "accountCode", "missing account code"))
	}
	return errs
}

func verr(ref, field, desc string) model.ValidationError {
	return model.ValidationError{Ref: ref, Field: field, Description: desc}
}
