package model

// PatternType selects how a matching rule's pattern is evaluated.
type PatternType string

const (
	PatternExact    PatternType = "exact"
	PatternContains PatternType = "contains"
	PatternRegex    PatternType = "regex"
)

// TargetType selects which ledger a rule classifies into.
type TargetType string

const (
	TargetIncome  TargetType = "income"
	TargetExpense TargetType = "expense"
)

// MatchingRule maps a transaction-attribute pattern to a classification
// target. Rules are configuration data loaded at the start of a run, never
// code.
type MatchingRule struct {
	ID          string
	PatternType PatternType
	Pattern     string
	TargetType  TargetType
	TargetCode  string // offering code or expense account code
	Priority    int    // lower = evaluated first
	Seq         int    // insertion order, breaks priority ties
	Active      bool
}

// MatchOutcome is the result of evaluating the rule set for one
// transaction. A nil Rule means no rule matched; that is an expected
// outcome, not an error.
type MatchOutcome struct {
	Rule       *MatchingRule
	Confidence float64
}

// RuleSuggestion is one ranked candidate offered to a human reviewer for a
// transaction that matched no rule.
type RuleSuggestion struct {
	Rule    MatchingRule
	Overlap int // total length of tokens shared with the transaction text
}
