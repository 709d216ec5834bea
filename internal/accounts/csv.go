package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
)

const (
	numFields = 4
	colCode   = 0
	colName   = 1
	colKind   = 2
	colDesc   = 3
)

// ReadAccounts reads chart.csv.
func ReadAccounts(r io.Reader) ([]Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart.csv.
func WriteAccounts(w io.Writer, accounts []Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"code", "name", "kind", "description"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct Account) []string {
	row := make([]string, numFields)
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colKind] = string(acct.Kind)
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (Account, error) {
	if len(record) != numFields {
		return Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if record[colCode] == "" {
		return Account{}, fmt.Errorf("empty account code")
	}

	kind := Kind(record[colKind])
	if kind != KindOffering && kind != KindExpense {
		return Account{}, fmt.Errorf("unknown kind %q", record[colKind])
	}

	return Account{
		Code:        record[colCode],
		Name:        record[colName],
		Kind:        kind,
		Description: record[colDesc],
	}, nil
}
