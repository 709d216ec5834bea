package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chaegbu-dev/chaegbu/internal/id"
	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// KBParser parses KB국민은행 checking-account CSV exports.
type KBParser struct{}

const (
	kbDateFormat     = "2006.01.02"
	kbDateTimeFormat = "2006.01.02 15:04:05"
	kbNumFields      = 8
	kbColTxDate      = 0
	kbColValueDate   = 1
	kbColWithdrawal  = 2
	kbColDeposit     = 3
	kbColBalance     = 4
	kbColDesc        = 5
	kbColDetail      = 6
	kbColMemo        = 7
)

// Format returns the parser name.
func (p *KBParser) Format() string { return "kb" }

// Parse reads a KB CSV and returns BankTransactions in the pending state.
func (p *KBParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = kbNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading KB CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		txn, err := parseKBRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseKBRow(rec []string) (model.BankTransaction, error) {
	txDate, err := parseKBDate(rec[kbColTxDate])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing transaction date %q: %w", rec[kbColTxDate], err)
	}

	valueDate, err := parseKBDate(rec[kbColValueDate])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing value date %q: %w", rec[kbColValueDate], err)
	}

	withdrawal, err := parseKBAmount(rec[kbColWithdrawal])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing withdrawal %q: %w", rec[kbColWithdrawal], err)
	}

	deposit, err := parseKBAmount(rec[kbColDeposit])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing deposit %q: %w", rec[kbColDeposit], err)
	}

	balance, err := parseKBAmount(rec[kbColBalance])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing balance %q: %w", rec[kbColBalance], err)
	}

	desc := strings.TrimSpace(rec[kbColDesc])

	return model.BankTransaction{
		ID:              id.ForTransaction(txDate, withdrawal, deposit, desc),
		TransactionDate: txDate,
		ValueDate:       valueDate,
		Withdrawal:      withdrawal,
		Deposit:         deposit,
		Balance:         balance,
		Description:     desc,
		Detail:          strings.TrimSpace(rec[kbColDetail]),
		Memo:            strings.TrimSpace(rec[kbColMemo]),
		State:           model.StatePending,
	}, nil
}

func parseKBDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(kbDateTimeFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(kbDateFormat, s)
}

// parseKBAmount handles thousands separators and blank cells ("", "0",
// "50,000").
func parseKBAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
