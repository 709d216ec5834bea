package rules

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

func withdrawal(desc, detail, memo string) model.BankTransaction {
	return model.BankTransaction{
		ID:              "w1",
		TransactionDate: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		ValueDate:       time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		Withdrawal:      decimal.NewFromInt(50000),
		Description:     desc,
		Detail:          detail,
		Memo:            memo,
		State:           model.StatePending,
	}
}

func deposit(desc, detail, memo string) model.BankTransaction {
	tx := withdrawal(desc, detail, memo)
	tx.ID = "d1"
	tx.Withdrawal = decimal.Zero
	tx.Deposit = decimal.NewFromInt(100000)
	return tx
}

func expenseRule(id, pattern string, priority int) model.MatchingRule {
	return model.MatchingRule{
		ID:          id,
		PatternType: model.PatternContains,
		Pattern:     pattern,
		TargetType:  model.TargetExpense,
		TargetCode:  "62",
		Priority:    priority,
		Active:      true,
	}
}

func incomeRule(id, pattern string, priority int) model.MatchingRule {
	r := expenseRule(id, pattern, priority)
	r.TargetType = model.TargetIncome
	r.TargetCode = "11"
	return r
}

func TestMatch_FirstMatchWinsByPriority(t *testing.T) {
	low := expenseRule("r-low", "전기료", 2)
	low.TargetCode = "69"
	high := expenseRule("r-high", "전기료", 1)
	high.TargetCode = "62"

	// Insertion order deliberately puts the low-priority rule first.
	snap := Load([]model.MatchingRule{low, high})

	tx := withdrawal("전기료", "한국전력", "")
	for run := 0; run < 50; run++ {
		out := snap.Match(tx)
		require.NotNil(t, out.Rule)
		assert.Equal(t, "r-high", out.Rule.ID)
		assert.Equal(t, "62", out.Rule.TargetCode)
	}
}

func TestMatch_EqualPriorityInsertionOrderWins(t *testing.T) {
	first := expenseRule("r-first", "전기료", 1)
	first.TargetCode = "62"
	second := expenseRule("r-second", "전기", 1)
	second.TargetCode = "69"

	tx := withdrawal("전기료 납부", "", "")

	// Loading and matching repeatedly must never alternate the winner.
	for run := 0; run < 50; run++ {
		snap := Load([]model.MatchingRule{first, second})
		out := snap.Match(tx)
		require.NotNil(t, out.Rule)
		assert.Equal(t, "r-first", out.Rule.ID)
	}
}

func TestMatch_NoMatchIsNilNotError(t *testing.T) {
	snap := Load([]model.MatchingRule{expenseRule("r1", "전기료", 1)})
	out := snap.Match(withdrawal("완전히 다른 내용", "", ""))
	assert.Nil(t, out.Rule)
}

func TestMatch_DirectionIsolation(t *testing.T) {
	snap := Load([]model.MatchingRule{
		expenseRule("exp", "헌금", 1),
		incomeRule("inc", "전기료", 1),
	})

	// A deposit never hits an expense rule even when the pattern matches.
	out := snap.Match(deposit("헌금", "", ""))
	assert.Nil(t, out.Rule)

	// And a withdrawal never hits an income rule.
	out = snap.Match(withdrawal("전기료", "", ""))
	assert.Nil(t, out.Rule)
}

func TestMatch_InactiveRulesSkipped(t *testing.T) {
	r := expenseRule("r1", "전기료", 1)
	r.Active = false
	snap := Load([]model.MatchingRule{r})
	assert.Nil(t, snap.Match(withdrawal("전기료", "", "")).Rule)
}

func TestMatch_CaseAndWhitespaceNormalized(t *testing.T) {
	r := expenseRule("r1", "  KEPCO  ", 1)
	snap := Load([]model.MatchingRule{r})

	out := snap.Match(withdrawal("  kepco auto-pay ", "", ""))
	require.NotNil(t, out.Rule)
	assert.Equal(t, "r1", out.Rule.ID)
}

func TestMatch_ExactComparesDescriptionOnly(t *testing.T) {
	r := expenseRule("r1", "전기료", 1)
	r.PatternType = model.PatternExact

	snap := Load([]model.MatchingRule{r})

	out := snap.Match(withdrawal(" 전기료 ", "다른 상세", ""))
	require.NotNil(t, out.Rule)
	assert.InDelta(t, 1.0, out.Confidence, 0.001)

	// Exact does not fire on a superstring description.
	assert.Nil(t, snap.Match(withdrawal("전기료 납부", "", "")).Rule)
}

func TestMatch_ContainsSearchesAllFields(t *testing.T) {
	snap := Load([]model.MatchingRule{expenseRule("r1", "한국전력", 1)})

	require.NotNil(t, snap.Match(withdrawal("자동이체", "한국전력", "")).Rule)
	require.NotNil(t, snap.Match(withdrawal("자동이체", "", "한국전력 3월분")).Rule)
}

func TestMatch_Regex(t *testing.T) {
	r := expenseRule("r1", `전기료|수도료`, 1)
	r.PatternType = model.PatternRegex

	snap := Load([]model.MatchingRule{r})
	require.Empty(t, snap.Disabled())

	require.NotNil(t, snap.Match(withdrawal("3월 수도료", "", "")).Rule)
	require.NotNil(t, snap.Match(withdrawal("전기료", "", "")).Rule)
	assert.Nil(t, snap.Match(withdrawal("가스료", "", "")).Rule)
}

func TestMatch_RegexCaseInsensitive(t *testing.T) {
	r := expenseRule("r1", `kepco`, 1)
	r.PatternType = model.PatternRegex

	snap := Load([]model.MatchingRule{r})
	require.NotNil(t, snap.Match(withdrawal("KEPCO AUTOPAY", "", "")).Rule)
}

func TestLoad_InvalidRegexDisabledNotFatal(t *testing.T) {
	bad := expenseRule("r-bad", `([unclosed`, 1)
	bad.PatternType = model.PatternRegex
	good := expenseRule("r-good", "전기료", 2)

	snap := Load([]model.MatchingRule{bad, good})

	require.Len(t, snap.Disabled(), 1)
	assert.Equal(t, "r-bad", snap.Disabled()[0].RuleID)

	// The bad rule never blocks matching of unrelated transactions.
	out := snap.Match(withdrawal("전기료", "", ""))
	require.NotNil(t, out.Rule)
	assert.Equal(t, "r-good", out.Rule.ID)
}

func TestLoad_DoesNotMutateInput(t *testing.T) {
	configured := []model.MatchingRule{
		expenseRule("b", "전기", 2),
		expenseRule("a", "전기", 1),
	}
	Load(configured)
	assert.Equal(t, "b", configured[0].ID)
}
