package commit

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/chaegbu-dev/chaegbu/internal/draft"
	"github.com/chaegbu-dev/chaegbu/internal/ledger"
	"github.com/chaegbu-dev/chaegbu/internal/model"
	"github.com/chaegbu-dev/chaegbu/internal/txstore"
)

// SuppressedInput names one transaction to suppress at commit time.
type SuppressedInput struct {
	TransactionID string
	Reason        string
}

// Request is a frozen draft batch submitted for commit. Income and expense
// halves are independent; either may be empty while the other posts.
type Request struct {
	Income     []model.IncomeDraft
	Expense    []model.ExpenseDraft
	Suppressed []SuppressedInput
}

// Coordinator posts a draft batch to the permanent ledgers and advances
// every consumed source transaction to its terminal state. The backing
// store has no multi-row transactions, so each row is made individually
// exactly-once: the guarded state transition claims the row before its
// ledger post, and a failed post releases the claim.
type Coordinator struct {
	txs     *txstore.Service
	income  ledger.IncomeLedger
	expense ledger.ExpenseLedger
	log     zerolog.Logger
}

// NewCoordinator creates a commit Coordinator.
func NewCoordinator(txs *txstore.Service, income ledger.IncomeLedger, expense ledger.ExpenseLedger, log zerolog.Logger) *Coordinator {
	return &Coordinator{txs: txs, income: income, expense: expense, log: log}
}

// Commit posts the batch. It always returns a usable CommitResult; the
// error is a *model.PartialWriteError when some ledger posts failed, so
// the caller can retry exactly the failed subset.
func (c *Coordinator) Commit(ctx context.Context, req Request) (model.CommitResult, error) {
	res := model.CommitResult{
		IncomeSuccess:  true,
		IncomeTotal:    decimal.Zero,
		ExpenseSuccess: true,
		ExpenseTotal:   decimal.Zero,
	}
	var posted []string

	for _, d := range req.Income {
		if verrs := draft.ValidateIncome(d); len(verrs) > 0 {
			c.rejectDraft(d.TransactionID, verrs)
			res.IncomeSuccess = false
			res.FailedTransactionIDs = append(res.FailedTransactionIDs, d.TransactionID)
			continue
		}

		switch c.postIncome(ctx, d) {
		case postOK:
			posted = append(posted, d.TransactionID)
			res.IncomeCount++
			res.IncomeTotal = res.IncomeTotal.Add(d.Amount)
		case postAlreadyDone:
			res.AlreadyConfirmed++
		case postFailed:
			res.IncomeSuccess = false
			res.FailedTransactionIDs = append(res.FailedTransactionIDs, d.TransactionID)
		}
	}

	for _, d := range req.Expense {
		if verrs := draft.ValidateExpense(d); len(verrs) > 0 {
			c.rejectDraft(d.TransactionID, verrs)
			res.ExpenseSuccess = false
			res.FailedTransactionIDs = append(res.FailedTransactionIDs, d.TransactionID)
			continue
		}

		switch c.postExpense(ctx, d) {
		case postOK:
			posted = append(posted, d.TransactionID)
			res.ExpenseCount++
			res.ExpenseTotal = res.ExpenseTotal.Add(d.Amount)
		case postAlreadyDone:
			res.AlreadyConfirmed++
		case postFailed:
			res.ExpenseSuccess = false
			res.FailedTransactionIDs = append(res.FailedTransactionIDs, d.TransactionID)
		}
	}

	for _, s := range req.Suppressed {
		if c.suppress(ctx, s) {
			res.SuppressedCount++
		}
	}

	if len(res.FailedTransactionIDs) > 0 {
		return res, &model.PartialWriteError{Posted: posted, Failed: res.FailedTransactionIDs}
	}
	return res, nil
}

type postStatus int

const (
	postOK postStatus = iota
	postAlreadyDone
	postFailed
)

// postIncome claims the source row, posts the record, and releases the
// claim if the post fails so a retry picks the row up again.
func (c *Coordinator) postIncome(ctx context.Context, d model.IncomeDraft) postStatus {
	if status := c.claim(ctx, d.TransactionID); status != postOK {
		return status
	}

	err := c.income.Append(ctx, ledger.IncomeRecord{
		TransactionID: d.TransactionID,
		Date:          d.Date,
		DonorName:     d.DonorName,
		Code:          d.Code,
		Label:         d.Label,
		Amount:        d.Amount,
		Note:          d.Note,
	})
	if err != nil {
		c.release(ctx, d.TransactionID, err)
		return postFailed
	}
	return postOK
}

func (c *Coordinator) postExpense(ctx context.Context, d model.ExpenseDraft) postStatus {
	if status := c.claim(ctx, d.TransactionID); status != postOK {
		return status
	}

	err := c.expense.Append(ctx, ledger.ExpenseRecord{
		TransactionID: d.TransactionID,
		Date:          d.Date,
		Vendor:        d.Vendor,
		Description:   d.Description,
		AccountCode:   d.AccountCode,
		Label:         d.Label,
		Amount:        d.Amount,
		Note:          d.Note,
	})
	if err != nil {
		c.release(ctx, d.TransactionID, err)
		return postFailed
	}
	return postOK
}

// claim advances the row to confirmed. Matched rows are the common case;
// a review item the treasurer classified by hand commits straight from
// pending or saved, so a conflict against a still-workable row retries
// from the state the row is actually in. Losing the compare-and-set to a
// terminal state means a concurrent commit already consumed the row; that
// draft is dropped, never double-posted.
func (c *Coordinator) claim(ctx context.Context, txID string) postStatus {
	err := c.txs.TransitionState(ctx, txID, model.StateMatched, model.StateConfirmed, "")
	if err == nil {
		return postOK
	}

	var ce model.ConflictError
	if errors.As(err, &ce) && ce.Actual.Workable() {
		err = c.txs.TransitionState(ctx, txID, ce.Actual, model.StateConfirmed, "")
		if err == nil {
			return postOK
		}
	}

	switch {
	case errors.As(err, &ce):
		c.log.Info().Str("tx_id", txID).Str("state", string(ce.Actual)).Msg("draft dropped, already processed")
		return postAlreadyDone
	case errors.Is(err, model.ErrNotFound):
		c.log.Error().Str("tx_id", txID).Msg("draft references an unknown transaction")
		return postFailed
	default:
		c.log.Error().Str("tx_id", txID).Err(err).Msg("state claim failed")
		return postFailed
	}
}

// release returns a claimed row to matched after a failed ledger post.
func (c *Coordinator) release(ctx context.Context, txID string, cause error) {
	c.log.Error().Str("tx_id", txID).Err(cause).Msg("ledger post failed, releasing row for retry")
	if err := c.txs.TransitionState(ctx, txID, model.StateConfirmed, model.StateMatched, ""); err != nil {
		c.log.Error().Str("tx_id", txID).Err(err).Msg("releasing claimed row failed")
	}
}

// suppress moves a row to the suppressed terminal state from whatever
// workable-or-matched state it is in. Already-terminal rows count as
// processed and are left alone.
func (c *Coordinator) suppress(ctx context.Context, s SuppressedInput) bool {
	reason := s.Reason
	if reason == "" {
		reason = "suppressed at commit"
	}

	tx, err := c.txs.Store().Get(ctx, s.TransactionID)
	if err != nil {
		c.log.Warn().Str("tx_id", s.TransactionID).Err(err).Msg("suppression target missing")
		return false
	}
	if tx.State == model.StateSuppressed {
		return false
	}
	if tx.State == model.StateConfirmed {
		c.log.Warn().Str("tx_id", s.TransactionID).Msg("cannot suppress a confirmed transaction")
		return false
	}

	if err := c.txs.TransitionState(ctx, s.TransactionID, tx.State, model.StateSuppressed, reason); err != nil {
		c.log.Warn().Str("tx_id", s.TransactionID).Err(err).Msg("suppression lost a state race")
		return false
	}
	return true
}

func (c *Coordinator) rejectDraft(txID string, verrs []model.ValidationError) {
	for _, ve := range verrs {
		c.log.Warn().Str("tx_id", txID).Str("field", ve.Field).Str("reason", ve.Description).Msg("draft rejected")
	}
}
