package rules

import (
	"strings"

	"github.com/chaegbu-dev/chaegbu/internal/id"
	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// Suppression reasons recorded on the transaction. One reason only; the
// first matching predicate short-circuits.
const (
	ReasonZeroAmount       = "zero amount"
	ReasonDuplicate        = "duplicate of confirmed transaction"
	ReasonInternalTransfer = "internal transfer"
)

// Suppressor decides whether a transaction is non-substantive and should be
// excluded from both ledgers before rule matching runs.
type Suppressor struct {
	transferPatterns []string
	customPatterns   []string
	confirmedKeys    map[string]bool
}

// NewSuppressor builds a Suppressor. confirmed is the set of
// already-confirmed transactions used for exact-duplicate detection.
func NewSuppressor(transferPatterns, customPatterns []string, confirmed []model.BankTransaction) *Suppressor {
	keys := make(map[string]bool, len(confirmed))
	for _, tx := range confirmed {
		keys[id.DuplicateKey(tx.TransactionDate, tx.Amount(), tx.Description)] = true
	}
	return &Suppressor{
		transferPatterns: normalizeAll(transferPatterns),
		customPatterns:   normalizeAll(customPatterns),
		confirmedKeys:    keys,
	}
}

// Evaluate runs the built-in predicates first, then configured patterns.
// The first hit wins and supplies the single recorded reason.
func (s *Suppressor) Evaluate(tx model.BankTransaction) (bool, string) {
	if tx.Withdrawal.IsZero() && tx.Deposit.IsZero() {
		return true, ReasonZeroAmount
	}

	if s.confirmedKeys[id.DuplicateKey(tx.TransactionDate, tx.Amount(), tx.Description)] {
		return true, ReasonDuplicate
	}

	text := MatchText(tx)
	for _, p := range s.transferPatterns {
		if p != "" && strings.Contains(text, p) {
			return true, ReasonInternalTransfer
		}
	}

	for _, p := range s.customPatterns {
		if p != "" && strings.Contains(text, p) {
			return true, "suppression rule: " + p
		}
	}

	return false, ""
}

func normalizeAll(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = normalize(p)
	}
	return out
}
