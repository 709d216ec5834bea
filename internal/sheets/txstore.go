package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// TransactionStore keeps bank transactions in one tab of the spreadsheet.
// The guarded state update is only safe because this process is the sole
// writer of the state column; the mutex serializes our own goroutines, and
// treasurers edit amounts and memos in the sheet, never states.
type TransactionStore struct {
	client *Client
	tab    string

	mu sync.Mutex
}

// NewTransactionStore creates a store over tab.
func NewTransactionStore(client *Client, tab string) *TransactionStore {
	return &TransactionStore{client: client, tab: tab}
}

// Insert appends tx unless its id is already present.
func (s *TransactionStore) Insert(ctx context.Context, tx model.BankTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, index, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := index[tx.ID]; ok {
		return fmt.Errorf("transaction %s: %w", tx.ID, model.ErrExists)
	}

	if len(rows) == 0 {
		if err := s.client.AppendRow(ctx, s.tab, TxHeader); err != nil {
			return err
		}
	}
	return s.client.AppendRow(ctx, s.tab, MarshalTx(tx))
}

// Get returns the transaction with the given id.
func (s *TransactionStore) Get(ctx context.Context, id string) (model.BankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, index, err := s.load(ctx)
	if err != nil {
		return model.BankTransaction{}, err
	}
	rowNum, ok := index[id]
	if !ok {
		return model.BankTransaction{}, fmt.Errorf("transaction %s: %w", id, model.ErrNotFound)
	}
	return UnmarshalTx(rows[rowNum-1])
}

// List returns all transactions in sheet order.
func (s *TransactionStore) List(ctx context.Context) ([]model.BankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(ctx, "")
}

// ListByState returns the transactions currently in state, in sheet order.
func (s *TransactionStore) ListByState(ctx context.Context, state model.TxState) ([]model.BankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(ctx, state)
}

// UpdateState performs the guarded transition from → to. A row in any
// other state fails with ConflictError carrying what was actually found.
func (s *TransactionStore) UpdateState(ctx context.Context, id string, from, to model.TxState, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, index, err := s.load(ctx)
	if err != nil {
		return err
	}
	rowNum, ok := index[id]
	if !ok {
		return fmt.Errorf("transaction %s: %w", id, model.ErrNotFound)
	}

	tx, err := UnmarshalTx(rows[rowNum-1])
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	if tx.State != from {
		return model.ConflictError{TransactionID: id, Expected: from, Actual: tx.State}
	}

	tx.State = to
	if to == model.StateSuppressed {
		tx.SuppressedReason = reason
	}
	return s.client.UpdateRow(ctx, s.tab, rowNum, MarshalTx(tx))
}

func (s *TransactionStore) list(ctx context.Context, state model.TxState) ([]model.BankTransaction, error) {
	rows, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	var txs []model.BankTransaction
	for i, row := range rows[1:] {
		tx, err := UnmarshalTx(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if state == "" || tx.State == state {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

// load reads the whole tab and indexes data rows by transaction id. Row
// numbers are 1-based with the header at row 1, matching UpdateRow.
func (s *TransactionStore) load(ctx context.Context) ([][]string, map[string]int, error) {
	rows, err := s.client.ReadRows(ctx, s.tab)
	if err != nil {
		return nil, nil, err
	}

	index := make(map[string]int, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		index[row[txColID]] = i + 1
	}
	return rows, index, nil
}
