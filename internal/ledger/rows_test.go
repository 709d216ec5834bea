package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomeRowRoundTrip(t *testing.T) {
	rec := IncomeRecord{
		TransactionID: "tx_20240303_abc",
		Date:          time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		DonorName:     "김성실",
		Code:          "11",
		Label:         "십일조",
		Amount:        decimal.NewFromInt(100000),
		Note:          "3월 첫주",
	}

	got, err := UnmarshalIncome(MarshalIncome(rec))
	require.NoError(t, err)
	assert.Equal(t, rec.TransactionID, got.TransactionID)
	assert.Equal(t, rec.DonorName, got.DonorName)
	assert.True(t, rec.Amount.Equal(got.Amount))
	assert.True(t, rec.Date.Equal(got.Date))
}

func TestExpenseRowRoundTrip(t *testing.T) {
	rec := ExpenseRecord{
		TransactionID: "tx_20240303_def",
		Date:          time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		Vendor:        "한국전력",
		Description:   "3월 전기료",
		AccountCode:   "62",
		Label:         "공과금",
		Amount:        decimal.NewFromInt(50000),
	}

	got, err := UnmarshalExpense(MarshalExpense(rec))
	require.NoError(t, err)
	assert.Equal(t, rec.AccountCode, got.AccountCode)
	assert.Equal(t, rec.Vendor, got.Vendor)
	assert.True(t, rec.Amount.Equal(got.Amount))
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := UnmarshalIncome([]string{"short"})
	assert.Error(t, err)

	bad := MarshalIncome(IncomeRecord{Date: time.Now(), Amount: decimal.NewFromInt(1)})
	bad[incColDate] = "NOTADATE"
	_, err = UnmarshalIncome(bad)
	assert.Error(t, err)

	bad = MarshalIncome(IncomeRecord{Date: time.Now(), Amount: decimal.NewFromInt(1)})
	bad[incColAmount] = "NaN-ish"
	_, err = UnmarshalIncome(bad)
	assert.Error(t, err)
}
