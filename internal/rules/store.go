package rules

import (
	"context"
	"strconv"
	"sync"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// Store is the external rule-configuration source. A matching run loads a
// Snapshot from it once, up front; an unreachable store is a
// FatalConfigError at the caller and the run never starts.
type Store interface {
	LoadRules(ctx context.Context) ([]model.MatchingRule, error)
	AddRule(ctx context.Context, rule model.MatchingRule) (model.MatchingRule, error)
}

// MemoryStore is an in-memory rule Store for tests and local mode.
type MemoryStore struct {
	mu    sync.Mutex
	rules []model.MatchingRule
}

// NewMemoryStore creates a MemoryStore seeded with rules.
func NewMemoryStore(rules ...model.MatchingRule) *MemoryStore {
	s := &MemoryStore{}
	for _, r := range rules {
		s.append(r)
	}
	return s
}

// LoadRules returns a copy of the configured rules.
func (s *MemoryStore) LoadRules(_ context.Context) ([]model.MatchingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.MatchingRule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

// AddRule appends a rule, assigning id and insertion sequence when unset.
func (s *MemoryStore) AddRule(_ context.Context, rule model.MatchingRule) (model.MatchingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.append(rule), nil
}

func (s *MemoryStore) append(rule model.MatchingRule) model.MatchingRule {
	rule.Seq = len(s.rules) + 1
	if rule.ID == "" {
		rule.ID = "rule-" + strconv.Itoa(rule.Seq)
	}
	s.rules = append(s.rules, rule)
	return rule
}
