package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaegbu-dev/chaegbu/internal/auditlog"
	"github.com/chaegbu-dev/chaegbu/internal/commit"
	"github.com/chaegbu-dev/chaegbu/internal/model"
	"github.com/chaegbu-dev/chaegbu/internal/rules"
)

func newCommitCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Post all matched transactions to the ledgers",
		Long: `Post all matched transactions to the income and expense ledgers.

Drafts are regenerated from the current rules, so a draft edited in the
web UI should be committed there instead. Matched withdrawals whose rule
no longer matches are left for review.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), dir, true)
			if err != nil {
				return err
			}
			return runCommit(cmd, a)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")

	return cmd
}

func runCommit(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()

	matched, err := a.txs.ListByState(ctx, model.StateMatched)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		cmd.Println("Nothing to commit.")
		return nil
	}

	configured, err := a.rules.LoadRules(ctx)
	if err != nil {
		return model.FatalConfigError{Source: "rules", Err: err}
	}
	snap := rules.Load(configured)

	// Rule evaluation is deterministic, so rebuilding each draft from the
	// current snapshot reproduces what the matching run produced, unless
	// the rules changed in between.
	var req commit.Request
	var skipped []string
	for _, tx := range matched {
		outcome := snap.Match(tx)
		switch {
		case outcome.Rule != nil && outcome.Rule.TargetType == model.TargetIncome:
			req.Income = append(req.Income, a.builder.Income(tx, outcome.Rule.TargetCode))
		case outcome.Rule != nil:
			req.Expense = append(req.Expense, a.builder.Expense(tx, outcome.Rule.TargetCode))
		case tx.IsDeposit():
			req.Income = append(req.Income, a.builder.Income(tx, a.cfg.Matching.FallbackIncomeCode))
		default:
			skipped = append(skipped, tx.ID)
		}
	}

	for _, txID := range skipped {
		cmd.Printf("skipped %s: no rule matches anymore, review it in the web UI\n", txID)
	}

	res, err := a.coord.Commit(ctx, req)
	var pwe *model.PartialWriteError
	if err != nil && !errors.As(err, &pwe) {
		return err
	}

	cmd.Printf("income:  %d posted (total %s)\n", res.IncomeCount, res.IncomeTotal)
	cmd.Printf("expense: %d posted (total %s)\n", res.ExpenseCount, res.ExpenseTotal)
	if res.AlreadyConfirmed > 0 {
		cmd.Printf("dropped %d already-confirmed drafts\n", res.AlreadyConfirmed)
	}

	entry := auditlog.Entry{
		Timestamp: time.Now(),
		Actor:     "cli",
		Action:    "commit",
		Details: fmt.Sprintf("%d income, %d expense posted; %d failed",
			res.IncomeCount, res.ExpenseCount, len(res.FailedTransactionIDs)),
	}
	if logErr := auditlog.Append(a.dir, []auditlog.Entry{entry}); logErr != nil {
		return fmt.Errorf("writing audit log: %w", logErr)
	}

	if pwe != nil {
		return fmt.Errorf("some rows were not posted, rerun to retry: %s",
			strings.Join(pwe.Failed, ", "))
	}
	return nil
}
