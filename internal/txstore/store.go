package txstore

import (
	"context"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// Store is the key-addressable transaction store. The backing store has no
// transactions or unique constraints; every guarantee the pipeline needs is
// built from these per-row operations.
type Store interface {
	// Insert adds a row. Returns model.ErrExists when the natural key is
	// already present.
	Insert(ctx context.Context, tx model.BankTransaction) error

	// Get returns the row for id, or model.ErrNotFound.
	Get(ctx context.Context, id string) (model.BankTransaction, error)

	// List returns all rows in insertion order.
	List(ctx context.Context) ([]model.BankTransaction, error)

	// ListByState returns all rows currently in state.
	ListByState(ctx context.Context, state model.TxState) ([]model.BankTransaction, error)

	// UpdateState is a guarded compare-and-set: the row must currently be
	// in from, otherwise a model.ConflictError is returned and nothing
	// changes. reason is recorded when to is the suppressed state.
	UpdateState(ctx context.Context, id string, from, to model.TxState, reason string) error
}
