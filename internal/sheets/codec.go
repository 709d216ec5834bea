package sheets

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// TxHeader is the header row of the transactions tab.
var TxHeader = []string{
	"id", "transaction_date", "value_date", "withdrawal", "deposit",
	"balance", "description", "detail", "memo", "state", "suppressed_reason",
}

// RuleHeader is the header row of the rules tab.
var RuleHeader = []string{
	"id", "pattern_type", "pattern", "target_type", "target_code",
	"priority", "seq", "active",
}

const (
	txNumFields   = 11
	ruleNumFields = 8

	txTimeFormat = "2006-01-02 15:04:05"
	txDateFormat = "2006-01-02"
)

const (
	txColID = iota
	txColTransactionDate
	txColValueDate
	txColWithdrawal
	txColDeposit
	txColBalance
	txColDescription
	txColDetail
	txColMemo
	txColState
	txColSuppressedReason
)

const (
	ruleColID = iota
	ruleColPatternType
	ruleColPattern
	ruleColTargetType
	ruleColTargetCode
	ruleColPriority
	ruleColSeq
	ruleColActive
)

// MarshalTx converts a BankTransaction to a sheet row.
func MarshalTx(tx model.BankTransaction) []string {
	row := make([]string, txNumFields)
	row[txColID] = tx.ID
	row[txColTransactionDate] = tx.TransactionDate.Format(txTimeFormat)
	row[txColValueDate] = tx.ValueDate.Format(txDateFormat)
	row[txColWithdrawal] = tx.Withdrawal.String()
	row[txColDeposit] = tx.Deposit.String()
	row[txColBalance] = tx.Balance.String()
	row[txColDescription] = tx.Description
	row[txColDetail] = tx.Detail
	row[txColMemo] = tx.Memo
	row[txColState] = string(tx.State)
	row[txColSuppressedReason] = tx.SuppressedReason
	return row
}

// UnmarshalTx converts a sheet row to a BankTransaction. Short rows are an
// error; the tab is append-only and every writer pads to the full width.
func UnmarshalTx(row []string) (model.BankTransaction, error) {
	if len(row) < txNumFields {
		return model.BankTransaction{}, fmt.Errorf("expected %d fields, got %d", txNumFields, len(row))
	}

	txDate, err := time.Parse(txTimeFormat, row[txColTransactionDate])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing transaction date %q: %w", row[txColTransactionDate], err)
	}
	valueDate, err := time.Parse(txDateFormat, row[txColValueDate])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing value date %q: %w", row[txColValueDate], err)
	}

	withdrawal, err := parseAmount(row[txColWithdrawal])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing withdrawal: %w", err)
	}
	deposit, err := parseAmount(row[txColDeposit])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing deposit: %w", err)
	}
	balance, err := parseAmount(row[txColBalance])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing balance: %w", err)
	}

	return model.BankTransaction{
		ID:               row[txColID],
		TransactionDate:  txDate,
		ValueDate:        valueDate,
		Withdrawal:       withdrawal,
		Deposit:          deposit,
		Balance:          balance,
		Description:      row[txColDescription],
		Detail:           row[txColDetail],
		Memo:             row[txColMemo],
		State:            model.TxState(row[txColState]),
		SuppressedReason: row[txColSuppressedReason],
	}, nil
}

// MarshalRule converts a MatchingRule to a sheet row.
func MarshalRule(r model.MatchingRule) []string {
	row := make([]string, ruleNumFields)
	row[ruleColID] = r.ID
	row[ruleColPatternType] = string(r.PatternType)
	row[ruleColPattern] = r.Pattern
	row[ruleColTargetType] = string(r.TargetType)
	row[ruleColTargetCode] = r.TargetCode
	row[ruleColPriority] = strconv.Itoa(r.Priority)
	row[ruleColSeq] = strconv.Itoa(r.Seq)
	row[ruleColActive] = strconv.FormatBool(r.Active)
	return row
}

// UnmarshalRule converts a sheet row to a MatchingRule.
func UnmarshalRule(row []string) (model.MatchingRule, error) {
	if len(row) < ruleNumFields {
		return model.MatchingRule{}, fmt.Errorf("expected %d fields, got %d", ruleNumFields, len(row))
	}

	priority, err := strconv.Atoi(row[ruleColPriority])
	if err != nil {
		return model.MatchingRule{}, fmt.Errorf("parsing priority %q: %w", row[ruleColPriority], err)
	}
	seq, err := strconv.Atoi(row[ruleColSeq])
	if err != nil {
		return model.MatchingRule{}, fmt.Errorf("parsing seq %q: %w", row[ruleColSeq], err)
	}
	active, err := strconv.ParseBool(row[ruleColActive])
	if err != nil {
		return model.MatchingRule{}, fmt.Errorf("parsing active %q: %w", row[ruleColActive], err)
	}

	return model.MatchingRule{
		ID:          row[ruleColID],
		PatternType: model.PatternType(row[ruleColPatternType]),
		Pattern:     row[ruleColPattern],
		TargetType:  model.TargetType(row[ruleColTargetType]),
		TargetCode:  row[ruleColTargetCode],
		Priority:    priority,
		Seq:         seq,
		Active:      active,
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
