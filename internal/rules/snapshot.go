package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// Snapshot is a point-in-time view of the rule set, loaded at the start of
// a matching run. Rule edits after the load do not affect the run.
type Snapshot struct {
	rules    []model.MatchingRule
	compiled map[string]*regexp.Regexp
	disabled []model.RuleError
}

// Load builds a Snapshot from configured rules. Rules are ordered by
// ascending priority; rules sharing a priority keep their insertion order
// (stable sort — the winner must never alternate across runs). Rules with
// an invalid regex are disabled and reported, never fatal.
func Load(configured []model.MatchingRule) *Snapshot {
	rules := make([]model.MatchingRule, len(configured))
	copy(rules, configured)
	for i := range rules {
		if rules[i].Seq == 0 {
			rules[i].Seq = i + 1
		}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority < rules[j].Priority
		}
		return rules[i].Seq < rules[j].Seq
	})

	snap := &Snapshot{
		rules:    rules,
		compiled: make(map[string]*regexp.Regexp),
	}

	for i := range snap.rules {
		r := &snap.rules[i]
		if !r.Active || r.PatternType != model.PatternRegex {
			continue
		}
		re, err := regexp.Compile(caseInsensitive(r.Pattern))
		if err != nil {
			r.Active = false
			snap.disabled = append(snap.disabled, model.RuleError{
				RuleID:  r.ID,
				Pattern: r.Pattern,
				Err:     err,
			})
			continue
		}
		snap.compiled[r.ID] = re
	}

	return snap
}

// Rules returns the ordered rule list (disabled rules included, inactive).
func (s *Snapshot) Rules() []model.MatchingRule {
	return s.rules
}

// Disabled reports the rules that could not be used this run.
func (s *Snapshot) Disabled() []model.RuleError {
	return s.disabled
}

// Match evaluates the rule set for one transaction: first active rule of
// the transaction's direction whose pattern matches wins. A nil rule in the
// outcome means no match, which is an expected result, not an error.
func (s *Snapshot) Match(tx model.BankTransaction) model.MatchOutcome {
	target := model.TargetExpense
	if tx.IsDeposit() {
		target = model.TargetIncome
	}

	text := MatchText(tx)
	desc := normalize(tx.Description)

	for i := range s.rules {
		r := &s.rules[i]
		if !r.Active || r.TargetType != target {
			continue
		}
		if s.patternMatches(r, desc, text) {
			confidence := 0.9
			if r.PatternType == model.PatternExact {
				confidence = 1.0
			}
			return model.MatchOutcome{Rule: r, Confidence: confidence}
		}
	}
	return model.MatchOutcome{}
}

func (s *Snapshot) patternMatches(r *model.MatchingRule, desc, text string) bool {
	switch r.PatternType {
	case model.PatternExact:
		return desc == normalize(r.Pattern)
	case model.PatternContains:
		return strings.Contains(text, normalize(r.Pattern))
	case model.PatternRegex:
		re, ok := s.compiled[r.ID]
		return ok && re.MatchString(text)
	default:
		return false
	}
}

// MatchText is the concatenated, case-normalized text patterns run over:
// description, detail, memo, newline-separated.
func MatchText(tx model.BankTransaction) string {
	return normalize(tx.Description) + "\n" + normalize(tx.Detail) + "\n" + normalize(tx.Memo)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// caseInsensitive prepends (?i) unless the pattern already sets flags,
// keeping regex semantics aligned with the case-normalized exact/contains
// types.
func caseInsensitive(pattern string) string {
	if strings.HasPrefix(pattern, "(?") {
		return pattern
	}
	return fmt.Sprintf("(?i)%s", pattern)
}
