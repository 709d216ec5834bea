package recon

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaegbu-dev/chaegbu/internal/model"
	"github.com/chaegbu-dev/chaegbu/internal/rules"
	"github.com/chaegbu-dev/chaegbu/internal/txstore"
)

type failingRuleStore struct{}

func (failingRuleStore) LoadRules(context.Context) ([]model.MatchingRule, error) {
	return nil, errors.New("sheet unreachable")
}

func (failingRuleStore) AddRule(_ context.Context, r model.MatchingRule) (model.MatchingRule, error) {
	return r, nil
}

func newTestRig(t *testing.T, ruleStore rules.Store) (*Service, *txstore.Service, *txstore.Memory) {
	t.Helper()
	store := txstore.NewMemory()
	txs := txstore.NewService(store, zerolog.Nop())
	svc := NewService(newEngine(), txs, ruleStore, []string{"대체"}, nil, zerolog.Nop())
	return svc, txs, store
}

func TestServiceRun_AdvancesDraftedToMatched(t *testing.T) {
	ruleStore := rules.NewMemoryStore(testRules()...)
	svc, txs, store := newTestRig(t, ruleStore)
	ctx := context.Background()

	_, err := txs.ImportRows(ctx, []model.BankTransaction{
		tx("", 3, 50000, 0, "전기료", ""),
		tx("", 3, 0, 100000, "김성실", "십일조"),
	})
	require.NoError(t, err)

	res, err := svc.Run(ctx)
	require.NoError(t, err)
	require.Len(t, res.Expense, 1)
	require.Len(t, res.Income, 1)

	matched, err := store.ListByState(ctx, model.StateMatched)
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	pending, err := store.ListByState(ctx, model.StatePending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestServiceRun_Rerunnable(t *testing.T) {
	ruleStore := rules.NewMemoryStore(testRules()...)
	svc, txs, _ := newTestRig(t, ruleStore)
	ctx := context.Background()

	_, err := txs.ImportRows(ctx, []model.BankTransaction{tx("", 3, 50000, 0, "전기료", "")})
	require.NoError(t, err)

	first, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Len(t, first.Expense, 1)

	// Matched rows are no longer workable; re-running is a no-op rather
	// than a double-draft.
	second, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Expense)
	assert.Zero(t, second.Report.Processed)
}

func TestServiceRun_UnreachableRuleStoreAbortsBeforeAnyRow(t *testing.T) {
	svc, txs, store := newTestRig(t, failingRuleStore{})
	ctx := context.Background()

	_, err := txs.ImportRows(ctx, []model.BankTransaction{tx("", 3, 50000, 0, "전기료", "")})
	require.NoError(t, err)

	_, err = svc.Run(ctx)
	require.Error(t, err)
	var fce model.FatalConfigError
	require.ErrorAs(t, err, &fce)
	assert.Equal(t, "rules", fce.Source)

	// No transaction was touched.
	pending, err := store.ListByState(ctx, model.StatePending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestServiceRun_SuppressesDuplicatesOfConfirmed(t *testing.T) {
	ruleStore := rules.NewMemoryStore(testRules()...)
	svc, txs, store := newTestRig(t, ruleStore)
	ctx := context.Background()

	confirmed := tx("prev", 3, 50000, 0, "전기료", "")
	confirmed.State = model.StateConfirmed
	require.NoError(t, store.Insert(ctx, confirmed))

	// Same date/amount/description re-imported under a different detail
	// gets a fresh key but is an exact duplicate of a confirmed row.
	dup := tx("dup", 3, 50000, 0, "전기료", "")
	_, err := txs.ImportRows(ctx, []model.BankTransaction{dup})
	require.NoError(t, err)

	res, err := svc.Run(ctx)
	require.NoError(t, err)
	require.Len(t, res.Suppressed, 1)
	assert.Equal(t, rules.ReasonDuplicate, res.Suppressed[0].Reason)
	assert.Empty(t, res.Expense)
}
