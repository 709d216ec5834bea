package recon

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chaegbu-dev/chaegbu/internal/draft"
	"github.com/chaegbu-dev/chaegbu/internal/model"
	"github.com/chaegbu-dev/chaegbu/internal/rules"
)

// RunResult is everything one matching run produced. Drafts are editable in
// memory until they are submitted for commit; nothing here has been
// persisted.
type RunResult struct {
	Income     []model.IncomeDraft
	Expense    []model.ExpenseDraft
	Review     []model.ReviewItem
	Suppressed []model.SuppressionRecord
	Report     model.MatchReport
}

// Engine evaluates the rule set over a batch of transactions. It is pure
// in-memory computation; transactions are processed independently and
// their order never affects any outcome.
type Engine struct {
	builder      *draft.Builder
	fallbackCode string
	suggestLimit int
	log          zerolog.Logger
}

// NewEngine creates a matching Engine. fallbackCode classifies deposits no
// rule matched; unmatched income must never silently vanish from the
// income ledger.
func NewEngine(builder *draft.Builder, fallbackCode string, suggestLimit int, log zerolog.Logger) *Engine {
	return &Engine{
		builder:      builder,
		fallbackCode: fallbackCode,
		suggestLimit: suggestLimit,
		log:          log,
	}
}

// Run classifies every workable transaction: suppression check, direction
// split, rule evaluation, then draft, fallback draft, or review item.
func (e *Engine) Run(txs []model.BankTransaction, snap *rules.Snapshot, sup *rules.Suppressor) RunResult {
	res := RunResult{
		Report: model.MatchReport{
			RunID:         uuid.NewString(),
			DisabledRules: len(snap.Disabled()),
		},
	}

	for _, re := range snap.Disabled() {
		e.log.Warn().Str("rule_id", re.RuleID).Str("pattern", re.Pattern).
			Err(re.Err).Msg("rule disabled for this run")
	}

	for _, tx := range txs {
		if !tx.State.Workable() {
			continue
		}
		res.Report.Processed++

		if suppressed, reason := sup.Evaluate(tx); suppressed {
			res.Suppressed = append(res.Suppressed, draft.Suppression(tx, reason))
			res.Report.Suppressed++
			continue
		}

		out := snap.Match(tx)
		switch {
		case tx.IsDeposit() && out.Rule != nil:
			res.Income = append(res.Income, e.builder.Income(tx, out.Rule.TargetCode))
			res.Report.IncomeDrafts++
		case tx.IsDeposit():
			// Unmatched income gets the fallback code, never review.
			res.Income = append(res.Income, e.builder.Income(tx, e.fallbackCode))
			res.Report.IncomeDrafts++
			res.Report.Fallback++
		case out.Rule != nil:
			res.Expense = append(res.Expense, e.builder.Expense(tx, out.Rule.TargetCode))
			res.Report.ExpenseDrafts++
		default:
			res.Review = append(res.Review, model.ReviewItem{
				Transaction: tx,
				Suggestions: snap.Suggest(tx, e.suggestLimit),
			})
			res.Report.Review++
		}
	}

	e.log.Info().
		Str("run_id", res.Report.RunID).
		Int("processed", res.Report.Processed).
		Int("income", res.Report.IncomeDrafts).
		Int("expense", res.Report.ExpenseDrafts).
		Int("review", res.Report.Review).
		Int("suppressed", res.Report.Suppressed).
		Msg("matching run complete")
	return res
}
