package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Fixed-column row codecs shared by every ledger backend that stores rows
// as strings (spreadsheet tabs, CSV exports).

// IncomeHeader is the column header row for the income ledger.
var IncomeHeader = []string{"transaction_id", "date", "donor", "code", "label", "amount", "note"}

// ExpenseHeader is the column header row for the expense ledger.
var ExpenseHeader = []string{"transaction_id", "date", "vendor", "description", "account_code", "label", "amount", "note"}

const dateFormat = "2006-01-02"

const (
	incomeNumFields = 7
	incColTxID      = 0
	incColDate      = 1
	incColDonor     = 2
	incColCode      = 3
	incColLabel     = 4
	incColAmount    = 5
	incColNote      = 6
)

const (
	expenseNumFields = 8
	expColTxID       = 0
	expColDate       = 1
	expColVendor     = 2
	expColDesc       = 3
	expColCode       = 4
	expColLabel      = 5
	expColAmount     = 6
	expColNote       = 7
)

// MarshalIncome converts an IncomeRecord to a string row.
func MarshalIncome(rec IncomeRecord) []string {
	row := make([]string, incomeNumFields)
	row[incColTxID] = rec.TransactionID
	row[incColDate] = rec.Date.Format(dateFormat)
	row[incColDonor] = rec.DonorName
	row[incColCode] = rec.Code
	row[incColLabel] = rec.Label
	row[incColAmount] = rec.Amount.String()
	row[incColNote] = rec.Note
	return row
}

// UnmarshalIncome converts a string row to an IncomeRecord.
func UnmarshalIncome(record []string) (IncomeRecord, error) {
	if len(record) != incomeNumFields {
		return IncomeRecord{}, fmt.Errorf("expected %d fields, got %d", incomeNumFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[incColDate])
	if err != nil {
		return IncomeRecord{}, fmt.Errorf("parsing date %q: %w", record[incColDate], err)
	}

	amount, err := decimal.NewFromString(record[incColAmount])
	if err != nil {
		return IncomeRecord{}, fmt.Errorf("parsing amount %q: %w", record[incColAmount], err)
	}

	return IncomeRecord{
		TransactionID: record[incColTxID],
		Date:          date,
		DonorName:     record[incColDonor],
		Code:          record[incColCode],
		Label:         record[incColLabel],
		Amount:        amount,
		Note:          record[incColNote],
	}, nil
}

// MarshalExpense converts an ExpenseRecord to a string row.
func MarshalExpense(rec ExpenseRecord) []string {
	row := make([]string, expenseNumFields)
	row[expColTxID] = rec.TransactionID
	row[expColDate] = rec.Date.Format(dateFormat)
	row[expColVendor] = rec.Vendor
	row[expColDesc] = rec.Description
	row[expColCode] = rec.AccountCode
	row[expColLabel] = rec.Label
	row[expColAmount] = rec.Amount.String()
	row[expColNote] = rec.Note
	return row
}

// UnmarshalExpense converts a string row to an ExpenseRecord.
func UnmarshalExpense(record []string) (ExpenseRecord, error) {
	if len(record) != expenseNumFields {
		return ExpenseRecord{}, fmt.Errorf("expected %d fields, got %d", expenseNumFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[expColDate])
	if err != nil {
		return ExpenseRecord{}, fmt.Errorf("parsing date %q: %w", record[expColDate], err)
	}

	amount, err := decimal.NewFromString(record[expColAmount])
	if err != nil {
		return ExpenseRecord{}, fmt.Errorf("parsing amount %q: %w", record[expColAmount], err)
	}

	return ExpenseRecord{
		TransactionID: record[expColTxID],
		Date:          date,
		Vendor:        record[expColVendor],
		Description:   record[expColDesc],
		AccountCode:   record[expColCode],
		Label:         record[expColLabel],
		Amount:        amount,
		Note:          record[expColNote],
	}, nil
}
