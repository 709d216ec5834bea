package rules

import (
	"sort"
	"strings"
	"unicode"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// Suggest ranks up to limit candidate rules for a transaction that matched
// nothing: rules whose pattern shares tokens with the transaction text,
// ordered by total shared token length, then priority, then insertion
// order. Only rules of the transaction's direction are considered.
func (s *Snapshot) Suggest(tx model.BankTransaction, limit int) []model.RuleSuggestion {
	target := model.TargetExpense
	if tx.IsDeposit() {
		target = model.TargetIncome
	}

	txTokens := tokenize(MatchText(tx))

	var suggestions []model.RuleSuggestion
	for i := range s.rules {
		r := s.rules[i]
		if !r.Active || r.TargetType != target {
			continue
		}
		overlap := tokenOverlap(txTokens, tokenize(normalize(r.Pattern)))
		if overlap == 0 {
			continue
		}
		suggestions = append(suggestions, model.RuleSuggestion{Rule: r, Overlap: overlap})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Overlap != suggestions[j].Overlap {
			return suggestions[i].Overlap > suggestions[j].Overlap
		}
		if suggestions[i].Rule.Priority != suggestions[j].Rule.Priority {
			return suggestions[i].Rule.Priority < suggestions[j].Rule.Priority
		}
		return suggestions[i].Rule.Seq < suggestions[j].Rule.Seq
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func tokenize(s string) map[string]bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		tokens[f] = true
	}
	return tokens
}

// tokenOverlap sums the lengths of tokens present in both sets, so longer
// shared words rank higher than short incidental ones.
func tokenOverlap(a, b map[string]bool) int {
	total := 0
	for tok := range b {
		if a[tok] {
			total += len([]rune(tok))
		}
	}
	return total
}
