package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chaegbu-dev/chaegbu/internal/accounts"
	"github.com/chaegbu-dev/chaegbu/internal/config"
)

func newInitCommand() *cobra.Command {
	var name string
	var spreadsheetID string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new chaegbu project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name, spreadsheetID)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "church name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "backing Google spreadsheet id (leave empty for local mode)")

	return cmd
}

func runInit(dir, name, spreadsheetID string) error {
	// Create directory structure.
	dirs := []string{
		"accounts",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write chaegbu.yaml.
	cfg := config.Default(name)
	cfg.Sheets.SpreadsheetID = spreadsheetID
	if err := config.Save(filepath.Join(dir, "chaegbu.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Printf("Initialized chaegbu project for %s in %s\n", name, dir)
	if spreadsheetID == "" {
		fmt.Println("No spreadsheet configured; set sheets.spreadsheet_id in chaegbu.yaml before importing.")
	}
	return nil
}
