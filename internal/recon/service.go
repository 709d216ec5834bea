package recon

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/chaegbu-dev/chaegbu/internal/model"
	"github.com/chaegbu-dev/chaegbu/internal/rules"
	"github.com/chaegbu-dev/chaegbu/internal/txstore"
)

// Service orchestrates a full matching run against the stores: load the
// rule snapshot, gather workable transactions, run the engine, then advance
// drafted transactions to the matched state.
type Service struct {
	engine           *Engine
	txs              *txstore.Service
	ruleStore        rules.Store
	transferPatterns []string
	customPatterns   []string
	log              zerolog.Logger
}

// NewService creates a matching-run Service.
func NewService(engine *Engine, txs *txstore.Service, ruleStore rules.Store, transferPatterns, customPatterns []string, log zerolog.Logger) *Service {
	return &Service{
		engine:           engine,
		txs:              txs,
		ruleStore:        ruleStore,
		transferPatterns: transferPatterns,
		customPatterns:   customPatterns,
		log:              log,
	}
}

// Run executes one matching run. An unreachable rule store aborts the run
// before any transaction is touched. Re-running is naturally idempotent:
// only pending/saved rows are picked up, and a row that races into another
// state simply drops out of the result.
func (s *Service) Run(ctx context.Context) (RunResult, error) {
	configured, err := s.ruleStore.LoadRules(ctx)
	if err != nil {
		return RunResult{}, model.FatalConfigError{Source: "rules", Err: err}
	}
	snap := rules.Load(configured)

	confirmed, err := s.txs.ListByState(ctx, model.StateConfirmed)
	if err != nil {
		return RunResult{}, err
	}
	sup := rules.NewSuppressor(s.transferPatterns, s.customPatterns, confirmed)

	workable, err := s.txs.Workable(ctx)
	if err != nil {
		return RunResult{}, err
	}

	res := s.engine.Run(workable, snap, sup)

	// Advance drafted rows to matched. A conflict means another run got
	// there first; drop that draft rather than offering it twice.
	stateOf := make(map[string]model.TxState, len(workable))
	for _, tx := range workable {
		stateOf[tx.ID] = tx.State
	}

	res.Income = filterIncome(ctx, s, res.Income, stateOf)
	res.Expense = filterExpense(ctx, s, res.Expense, stateOf)
	return res, nil
}

func filterIncome(ctx context.Context, s *Service, drafts []model.IncomeDraft, stateOf map[string]model.TxState) []model.IncomeDraft {
	kept := drafts[:0]
	for _, d := range drafts {
		if s.advance(ctx, d.TransactionID, stateOf[d.TransactionID]) {
			kept = append(kept, d)
		}
	}
	return kept
}

func filterExpense(ctx context.Context, s *Service, drafts []model.ExpenseDraft, stateOf map[string]model.TxState) []model.ExpenseDraft {
	kept := drafts[:0]
	for _, d := range drafts {
		if s.advance(ctx, d.TransactionID, stateOf[d.TransactionID]) {
			kept = append(kept, d)
		}
	}
	return kept
}

func (s *Service) advance(ctx context.Context, txID string, from model.TxState) bool {
	err := s.txs.TransitionState(ctx, txID, from, model.StateMatched, "")
	if err == nil {
		return true
	}

	var ce model.ConflictError
	if errors.As(err, &ce) && ce.Actual == model.StateMatched {
		// A previous run already matched it; the draft is still valid.
		return true
	}

	s.log.Warn().Str("tx_id", txID).Err(err).Msg("dropping draft, transaction moved concurrently")
	return false
}
