package txstore

import (
	"context"
	"sync"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// Memory is an in-memory Store. It backs tests and local mode, and defines
// the semantics the spreadsheet-backed store must reproduce.
type Memory struct {
	mu    sync.Mutex
	rows  map[string]model.BankTransaction
	order []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{rows: make(map[string]model.BankTransaction)}
}

// Insert adds a row, failing with model.ErrExists on a duplicate key.
func (m *Memory) Insert(_ context.Context, tx model.BankTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[tx.ID]; ok {
		return model.ErrExists
	}
	m.rows[tx.ID] = tx
	m.order = append(m.order, tx.ID)
	return nil
}

// Get returns the row for id.
func (m *Memory) Get(_ context.Context, id string) (model.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.rows[id]
	if !ok {
		return model.BankTransaction{}, model.ErrNotFound
	}
	return tx, nil
}

// List returns all rows in insertion order.
func (m *Memory) List(_ context.Context) ([]model.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.BankTransaction, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.rows[id])
	}
	return out, nil
}

// ListByState returns all rows currently in state, in insertion order.
func (m *Memory) ListByState(_ context.Context, state model.TxState) ([]model.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.BankTransaction
	for _, id := range m.order {
		if m.rows[id].State == state {
			out = append(out, m.rows[id])
		}
	}
	return out, nil
}

// UpdateState performs the guarded compare-and-set under the store lock.
func (m *Memory) UpdateState(_ context.Context, id string, from, to model.TxState, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.rows[id]
	if !ok {
		return model.ErrNotFound
	}
	if tx.State != from {
		return model.ConflictError{TransactionID: id, Expected: from, Actual: tx.State}
	}

	tx.State = to
	if to == model.StateSuppressed {
		tx.SuppressedReason = reason
	}
	m.rows[id] = tx
	return nil
}
