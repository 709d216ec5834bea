package txstore

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/chaegbu-dev/chaegbu/internal/id"
	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// ImportResult reports the outcome of one statement import.
type ImportResult struct {
	Inserted   int
	Duplicates int
	// Rejected lists rows that failed validation. A rejected row never
	// affects the rest of the batch.
	Rejected []model.ValidationError
}

// Service provides business logic over a Store.
type Service struct {
	store Store
	log   zerolog.Logger
}

// NewService creates a transaction store Service.
func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Store exposes the underlying store for collaborators that need row-level
// access (the commit coordinator).
func (s *Service) Store() Store {
	return s.store
}

// ImportRows upserts parsed statement rows keyed on the natural key. Rows
// whose key already exists are skipped, so re-uploading the same statement
// file is a no-op.
func (s *Service) ImportRows(ctx context.Context, rows []model.BankTransaction) (ImportResult, error) {
	var res ImportResult
	for i, tx := range rows {
		if verr, ok := validateRow(i, tx); !ok {
			res.Rejected = append(res.Rejected, verr)
			continue
		}

		if tx.ID == "" {
			tx.ID = id.ForTransaction(tx.TransactionDate, tx.Withdrawal, tx.Deposit, tx.Description)
		}
		if tx.State == "" {
			tx.State = model.StatePending
		}

		err := s.store.Insert(ctx, tx)
		switch {
		case errors.Is(err, model.ErrExists):
			res.Duplicates++
		case err != nil:
			return res, err
		default:
			res.Inserted++
		}
	}

	s.log.Info().
		Int("inserted", res.Inserted).
		Int("duplicates", res.Duplicates).
		Int("rejected", len(res.Rejected)).
		Msg("statement import")
	return res, nil
}

// ListByState returns the rows currently in state.
func (s *Service) ListByState(ctx context.Context, state model.TxState) ([]model.BankTransaction, error) {
	return s.store.ListByState(ctx, state)
}

// Workable returns all rows a matching run may process (pending + saved).
func (s *Service) Workable(ctx context.Context) ([]model.BankTransaction, error) {
	pending, err := s.store.ListByState(ctx, model.StatePending)
	if err != nil {
		return nil, err
	}
	saved, err := s.store.ListByState(ctx, model.StateSaved)
	if err != nil {
		return nil, err
	}
	return append(pending, saved...), nil
}

// TransitionState advances one row through its lifecycle with a guarded
// compare-and-set.
func (s *Service) TransitionState(ctx context.Context, txID string, from, to model.TxState, reason string) error {
	return s.store.UpdateState(ctx, txID, from, to, reason)
}

func validateRow(index int, tx model.BankTransaction) (model.ValidationError, bool) {
	ref := tx.ID
	if ref == "" {
		ref = rowRef(index)
	}

	if tx.TransactionDate.IsZero() {
		return model.ValidationError{Ref: ref, Field: "transactionDate", Description: "missing transaction date"}, false
	}
	if tx.Withdrawal.IsZero() && tx.Deposit.IsZero() {
		return model.ValidationError{Ref: ref, Field: "amount", Description: "one of withdrawal/deposit is required"}, false
	}
	if tx.Withdrawal.IsNegative() || tx.Deposit.IsNegative() {
		return model.ValidationError{Ref: ref, Field: "amount", Description: "amounts must not be negative"}, false
	}
	if tx.Withdrawal.IsPositive() && tx.Deposit.IsPositive() {
		return model.ValidationError{Ref: ref, Field: "amount", Description: "exactly one of withdrawal/deposit may be set"}, false
	}
	return model.ValidationError{}, true
}

func rowRef(index int) string {
	return "row " + strconv.Itoa(index+1)
}
