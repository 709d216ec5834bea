package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaegbu-dev/chaegbu/internal/auditlog"
	"github.com/chaegbu-dev/chaegbu/internal/importer"
)

func newImportCommand() *cobra.Command {
	var dir string
	var format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank statement CSVs from the import/ directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), dir, true)
			if err != nil {
				return err
			}
			return runImport(cmd, a, format)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&format, "format", "kb", "statement format of the files in import/")

	return cmd
}

func runImport(cmd *cobra.Command, a *app, format string) error {
	parser := a.parsers.Get(format)
	if parser == nil {
		return fmt.Errorf("unknown statement format: %s", format)
	}

	files, err := importer.Scan(a.dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cmd.Println("No CSV files found in import/")
		return nil
	}

	ctx := cmd.Context()
	for _, file := range files {
		f, err := os.Open(file.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file.Name, err)
		}
		rows, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file.Name, err)
		}

		res, err := a.txs.ImportRows(ctx, rows)
		if err != nil {
			return fmt.Errorf("importing %s: %w", file.Name, err)
		}

		if err := importer.MarkProcessed(a.dir, file.Name); err != nil {
			return err
		}

		cmd.Printf("%s: %d inserted, %d duplicates, %d rejected\n",
			file.Name, res.Inserted, res.Duplicates, len(res.Rejected))
		for _, ve := range res.Rejected {
			cmd.Printf("  rejected %s: %s\n", ve.Ref, ve.Description)
		}

		entry := auditlog.Entry{
			Timestamp: time.Now(),
			Actor:     "cli",
			Action:    "import",
			Details:   fmt.Sprintf("%s: %d inserted, %d duplicates", file.Name, res.Inserted, res.Duplicates),
		}
		if err := auditlog.Append(a.dir, []auditlog.Entry{entry}); err != nil {
			return fmt.Errorf("writing audit log: %w", err)
		}
	}
	return nil
}
