package recon

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaegbu-dev/chaegbu/internal/accounts"
	"github.com/chaegbu-dev/chaegbu/internal/draft"
	"github.com/chaegbu-dev/chaegbu/internal/model"
	"github.com/chaegbu-dev/chaegbu/internal/rules"
)

const fallbackCode = "10"

func newEngine() *Engine {
	builder := draft.NewBuilder(accounts.NewService(accounts.DefaultChart()))
	return NewEngine(builder, fallbackCode, 5, zerolog.Nop())
}

func tx(id string, day int, withdrawal, deposit int64, desc, memo string) model.BankTransaction {
	date := time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
	return model.BankTransaction{
		ID:              id,
		TransactionDate: date,
		ValueDate:       date,
		Withdrawal:      decimal.NewFromInt(withdrawal),
		Deposit:         decimal.NewFromInt(deposit),
		Description:     desc,
		Memo:            memo,
		State:           model.StatePending,
	}
}

func testRules() []model.MatchingRule {
	return []model.MatchingRule{
		{ID: "r-tithe", PatternType: model.PatternContains, Pattern: "십일조", TargetType: model.TargetIncome, TargetCode: "11", Priority: 1, Active: true},
		{ID: "r-util", PatternType: model.PatternContains, Pattern: "전기료", TargetType: model.TargetExpense, TargetCode: "62", Priority: 1, Active: true},
	}
}

func emptySuppressor() *rules.Suppressor {
	return rules.NewSuppressor(nil, nil, nil)
}

func TestRun_Scenario(t *testing.T) {
	// {date:2024-03-03, withdrawal:50000, memo:"전기료"} with a priority-1
	// rule targeting account 62 yields a matched expense draft.
	e := newEngine()
	snap := rules.Load(testRules())

	res := e.Run([]model.BankTransaction{tx("t1", 3, 50000, 0, "자동이체", "전기료")}, snap, emptySuppressor())

	require.Len(t, res.Expense, 1)
	assert.Equal(t, "62", res.Expense[0].AccountCode)
	assert.Equal(t, "50000", res.Expense[0].Amount.String())
	assert.Equal(t, "t1", res.Expense[0].TransactionID)
	assert.Empty(t, res.Income)
	assert.Empty(t, res.Review)
}

func TestRun_DirectionIsolation(t *testing.T) {
	e := newEngine()

	// Baited rules: an expense rule matching deposit text and an income
	// rule matching withdrawal text.
	snap := rules.Load([]model.MatchingRule{
		{ID: "exp-bait", PatternType: model.PatternContains, Pattern: "헌금", TargetType: model.TargetExpense, TargetCode: "69", Priority: 1, Active: true},
		{ID: "inc-bait", PatternType: model.PatternContains, Pattern: "전기료", TargetType: model.TargetIncome, TargetCode: "19", Priority: 1, Active: true},
	})

	var batch []model.BankTransaction
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			batch = append(batch, tx(fmt.Sprintf("d%d", i), 1+i%28, 0, 1000*int64(i+1), "감사헌금", ""))
		} else {
			batch = append(batch, tx(fmt.Sprintf("w%d", i), 1+i%28, 1000*int64(i+1), 0, "전기료", ""))
		}
	}

	res := e.Run(batch, snap, emptySuppressor())

	// Deposits cannot match the expense bait: all fall back to the
	// uncategorized code. Withdrawals cannot match the income bait: all
	// land in review.
	require.Len(t, res.Income, 10)
	for _, d := range res.Income {
		assert.Equal(t, fallbackCode, d.Code)
	}
	assert.Len(t, res.Review, 10)
	assert.Empty(t, res.Expense)
}

func TestRun_UnmatchedDepositFallsBack(t *testing.T) {
	e := newEngine()
	snap := rules.Load(testRules())

	res := e.Run([]model.BankTransaction{tx("d1", 6, 0, 70000, "박주정", "")}, snap, emptySuppressor())

	require.Len(t, res.Income, 1)
	assert.Equal(t, fallbackCode, res.Income[0].Code)
	assert.Equal(t, 1, res.Report.Fallback)
	assert.Empty(t, res.Review, "unmatched income never enters review")
}

func TestRun_UnmatchedWithdrawalGoesToReview(t *testing.T) {
	e := newEngine()
	snap := rules.Load(append(testRules(),
		model.MatchingRule{ID: "r-office", PatternType: model.PatternContains, Pattern: "사무용품 정기구매", TargetType: model.TargetExpense, TargetCode: "63", Priority: 2, Active: true},
	))

	res := e.Run([]model.BankTransaction{tx("w1", 7, 15000, 0, "사무용품 구입", "")}, snap, emptySuppressor())

	require.Len(t, res.Review, 1)
	item := res.Review[0]
	assert.Equal(t, "w1", item.Transaction.ID)
	require.NotEmpty(t, item.Suggestions)
	assert.Equal(t, "r-office", item.Suggestions[0].Rule.ID)
}

func TestRun_SuppressedExcludedFromMatching(t *testing.T) {
	e := newEngine()
	snap := rules.Load(testRules())
	sup := rules.NewSuppressor([]string{"대체"}, nil, nil)

	res := e.Run([]model.BankTransaction{
		tx("s1", 5, 200000, 0, "대체", ""),
		tx("t1", 3, 50000, 0, "전기료", ""),
	}, snap, sup)

	require.Len(t, res.Suppressed, 1)
	assert.Equal(t, "s1", res.Suppressed[0].TransactionID)
	assert.Equal(t, rules.ReasonInternalTransfer, res.Suppressed[0].Reason)
	assert.Len(t, res.Expense, 1)
	assert.Equal(t, 1, res.Report.Suppressed)
}

func TestRun_SkipsNonWorkableStates(t *testing.T) {
	e := newEngine()
	snap := rules.Load(testRules())

	confirmed := tx("c1", 3, 50000, 0, "전기료", "")
	confirmed.State = model.StateConfirmed
	matched := tx("m1", 3, 50000, 0, "전기료", "")
	matched.State = model.StateMatched

	res := e.Run([]model.BankTransaction{confirmed, matched}, snap, emptySuppressor())
	assert.Zero(t, res.Report.Processed)
	assert.Empty(t, res.Expense)
}

func TestRun_OrderIndependence(t *testing.T) {
	e := newEngine()
	snap := rules.Load(testRules())

	a := []model.BankTransaction{
		tx("t1", 3, 50000, 0, "전기료", ""),
		tx("t2", 4, 0, 100000, "김성실", "십일조"),
		tx("t3", 5, 30000, 0, "모르는 지출", ""),
	}
	b := []model.BankTransaction{a[2], a[0], a[1]}

	ra := e.Run(a, snap, emptySuppressor())
	rb := e.Run(b, snap, emptySuppressor())

	require.Len(t, ra.Expense, 1)
	require.Len(t, rb.Expense, 1)
	assert.Equal(t, ra.Expense[0].AccountCode, rb.Expense[0].AccountCode)
	assert.Equal(t, ra.Income[0].Code, rb.Income[0].Code)
	assert.Equal(t, ra.Report.Review, rb.Report.Review)
}

func TestRun_ReportsDisabledRules(t *testing.T) {
	e := newEngine()
	bad := model.MatchingRule{ID: "bad", PatternType: model.PatternRegex, Pattern: "([", TargetType: model.TargetExpense, TargetCode: "69", Priority: 1, Active: true}
	snap := rules.Load(append(testRules(), bad))

	res := e.Run([]model.BankTransaction{tx("t1", 3, 50000, 0, "전기료", "")}, snap, emptySuppressor())
	assert.Equal(t, 1, res.Report.DisabledRules)
	assert.Len(t, res.Expense, 1, "a bad rule must not block unrelated transactions")
}
