package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

func TestSuggest_RanksByOverlapLength(t *testing.T) {
	short := expenseRule("short", "전기", 1)
	long := expenseRule("long", "한국전력 자동이체", 5)

	snap := Load([]model.MatchingRule{short, long})

	got := snap.Suggest(withdrawal("인출", "한국전력 자동이체 3월분", ""), 5)
	require.Len(t, got, 1) // "전기" shares no whole token with the text

	assert.Equal(t, "long", got[0].Rule.ID)
	assert.Positive(t, got[0].Overlap)
}

func TestSuggest_TieBreakByPriorityThenSeq(t *testing.T) {
	a := expenseRule("a", "전기료", 2)
	b := expenseRule("b", "전기료", 1)
	c := expenseRule("c", "전기료", 1)

	snap := Load([]model.MatchingRule{a, b, c})

	got := snap.Suggest(withdrawal("인출", "전기료", ""), 5)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].Rule.ID) // priority 1, inserted before c
	assert.Equal(t, "c", got[1].Rule.ID)
	assert.Equal(t, "a", got[2].Rule.ID)
}

func TestSuggest_Limit(t *testing.T) {
	rs := []model.MatchingRule{
		expenseRule("a", "전기료", 1),
		expenseRule("b", "전기료", 2),
		expenseRule("c", "전기료", 3),
	}
	snap := Load(rs)

	got := snap.Suggest(withdrawal("인출", "전기료", ""), 2)
	assert.Len(t, got, 2)
}

func TestSuggest_DirectionFiltered(t *testing.T) {
	snap := Load([]model.MatchingRule{incomeRule("inc", "십일조", 1)})

	// An expense candidate gets no income-rule suggestions.
	got := snap.Suggest(withdrawal("인출", "십일조", ""), 5)
	assert.Empty(t, got)

	got = snap.Suggest(deposit("김성실", "", "십일조"), 5)
	assert.Len(t, got, 1)
}

func TestSuggest_NoOverlapNoSuggestion(t *testing.T) {
	snap := Load([]model.MatchingRule{expenseRule("a", "전기료", 1)})
	got := snap.Suggest(withdrawal("완전히 무관한 항목", "", ""), 5)
	assert.Empty(t, got)
}
