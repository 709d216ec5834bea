package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/chaegbu-dev/chaegbu/internal/model"
)

// RuleStore keeps matching rules in the rules tab. Treasurers may edit
// patterns and priorities directly in the sheet; every matching run loads
// a fresh snapshot, so edits take effect on the next run.
type RuleStore struct {
	client *Client
	tab    string

	mu sync.Mutex
}

// NewRuleStore creates a store over tab.
func NewRuleStore(client *Client, tab string) *RuleStore {
	return &RuleStore{client: client, tab: tab}
}

// LoadRules returns all rules in sheet order. Sheet order is the insertion
// sequence used to break priority ties.
func (s *RuleStore) LoadRules(ctx context.Context) ([]model.MatchingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.client.ReadRows(ctx, s.tab)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	var rules []model.MatchingRule
	for i, row := range rows[1:] {
		r, err := UnmarshalRule(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if r.Seq == 0 {
			r.Seq = i + 1
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// AddRule appends a rule, assigning id and insertion sequence when unset.
func (s *RuleStore) AddRule(ctx context.Context, rule model.MatchingRule) (model.MatchingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.client.ReadRows(ctx, s.tab)
	if err != nil {
		return model.MatchingRule{}, err
	}
	if len(rows) == 0 {
		if err := s.client.AppendRow(ctx, s.tab, RuleHeader); err != nil {
			return model.MatchingRule{}, err
		}
	}

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.Seq == 0 {
		// len(rows) counts the header plus existing data rows, which is
		// exactly the next 1-based insertion sequence.
		rule.Seq = len(rows)
		if rule.Seq == 0 {
			rule.Seq = 1
		}
	}
	if err := s.client.AppendRow(ctx, s.tab, MarshalRule(rule)); err != nil {
		return model.MatchingRule{}, err
	}
	return rule, nil
}
