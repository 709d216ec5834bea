package ledger

import (
	"context"
	"sync"
)

// MemoryIncome is an in-memory income ledger for tests and local mode.
type MemoryIncome struct {
	mu   sync.Mutex
	recs []IncomeRecord
}

// NewMemoryIncome creates an empty in-memory income ledger.
func NewMemoryIncome() *MemoryIncome {
	return &MemoryIncome{}
}

// Append posts one record.
func (m *MemoryIncome) Append(_ context.Context, rec IncomeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

// List returns all posted records in posting order.
func (m *MemoryIncome) List(_ context.Context) ([]IncomeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]IncomeRecord, len(m.recs))
	copy(out, m.recs)
	return out, nil
}

// MemoryExpense is an in-memory expense ledger.
type MemoryExpense struct {
	mu   sync.Mutex
	recs []ExpenseRecord
}

// NewMemoryExpense creates an empty in-memory expense ledger.
func NewMemoryExpense() *MemoryExpense {
	return &MemoryExpense{}
}

// Append posts one record.
func (m *MemoryExpense) Append(_ context.Context, rec ExpenseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

// List returns all posted records in posting order.
func (m *MemoryExpense) List(_ context.Context) ([]ExpenseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ExpenseRecord, len(m.recs))
	copy(out, m.recs)
	return out, nil
}
