package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaegbu-dev/chaegbu/internal/auditlog"
)

func newMatchCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run rule matching over imported transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), dir, true)
			if err != nil {
				return err
			}

			res, err := a.recon.Run(cmd.Context())
			if err != nil {
				return err
			}

			r := res.Report
			cmd.Printf("Run %s\n", r.RunID)
			cmd.Printf("  processed:      %d\n", r.Processed)
			cmd.Printf("  income drafts:  %d (%d fallback)\n", r.IncomeDrafts, r.Fallback)
			cmd.Printf("  expense drafts: %d\n", r.ExpenseDrafts)
			cmd.Printf("  review:         %d\n", r.Review)
			cmd.Printf("  suppressed:     %d\n", r.Suppressed)
			if r.DisabledRules > 0 {
				cmd.Printf("  disabled rules: %d (see log)\n", r.DisabledRules)
			}

			for _, item := range res.Review {
				cmd.Printf("review: %s %s (%s)\n",
					item.Transaction.ID, item.Transaction.Description, item.Transaction.Amount())
				for _, sug := range item.Suggestions {
					cmd.Printf("  suggestion: %s -> %s\n", sug.Rule.Pattern, sug.Rule.TargetCode)
				}
			}

			entry := auditlog.Entry{
				Timestamp: time.Now(),
				Actor:     "cli",
				Action:    "match",
				Details: fmt.Sprintf("%d processed, %d income, %d expense, %d review, %d suppressed",
					r.Processed, r.IncomeDrafts, r.ExpenseDrafts, r.Review, r.Suppressed),
				RunID: r.RunID,
			}
			if err := auditlog.Append(a.dir, []auditlog.Entry{entry}); err != nil {
				return fmt.Errorf("writing audit log: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")

	return cmd
}
