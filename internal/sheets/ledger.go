package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/chaegbu-dev/chaegbu/internal/ledger"
)

// IncomeSheet is the permanent income ledger, one appended row per posted
// offering.
type IncomeSheet struct {
	client *Client
	tab    string

	mu sync.Mutex
}

// NewIncomeSheet creates an income ledger over tab.
func NewIncomeSheet(client *Client, tab string) *IncomeSheet {
	return &IncomeSheet{client: client, tab: tab}
}

// Append posts one income record.
func (s *IncomeSheet) Append(ctx context.Context, rec ledger.IncomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ensureHeader(ctx, s.client, s.tab, ledger.IncomeHeader); err != nil {
		return err
	}
	return s.client.AppendRow(ctx, s.tab, ledger.MarshalIncome(rec))
}

// List returns all posted income records.
func (s *IncomeSheet) List(ctx context.Context) ([]ledger.IncomeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.client.ReadRows(ctx, s.tab)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	var recs []ledger.IncomeRecord
	for i, row := range rows[1:] {
		rec, err := ledger.UnmarshalIncome(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func ensureHeader(ctx context.Context, client *Client, tab string, header []string) error {
	rows, err := client.ReadRows(ctx, tab)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}
	return client.AppendRow(ctx, tab, header)
}

// ExpenseSheet is the permanent expense ledger.
type ExpenseSheet struct {
	client *Client
	tab    string

	mu sync.Mutex
}

// NewExpenseSheet creates an expense ledger over tab.
func NewExpenseSheet(client *Client, tab string) *ExpenseSheet {
	return &ExpenseSheet{client: client, tab: tab}
}

// Append posts one expense record.
func (s *ExpenseSheet) Append(ctx context.Context, rec ledger.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ensureHeader(ctx, s.client, s.tab, ledger.ExpenseHeader); err != nil {
		return err
	}
	return s.client.AppendRow(ctx, s.tab, ledger.MarshalExpense(rec))
}

// List returns all posted expense records.
func (s *ExpenseSheet) List(ctx context.Context) ([]ledger.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.client.ReadRows(ctx, s.tab)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	var recs []ledger.ExpenseRecord
	for i, row := range rows[1:] {
		rec, err := ledger.UnmarshalExpense(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
