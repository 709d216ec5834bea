package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/chaegbu-dev/chaegbu/internal/accounts"
	"github.com/chaegbu-dev/chaegbu/internal/commit"
	"github.com/chaegbu-dev/chaegbu/internal/config"
	"github.com/chaegbu-dev/chaegbu/internal/draft"
	"github.com/chaegbu-dev/chaegbu/internal/importer"
	"github.com/chaegbu-dev/chaegbu/internal/ledger"
	"github.com/chaegbu-dev/chaegbu/internal/logger"
	"github.com/chaegbu-dev/chaegbu/internal/recon"
	"github.com/chaegbu-dev/chaegbu/internal/rules"
	"github.com/chaegbu-dev/chaegbu/internal/sheets"
	"github.com/chaegbu-dev/chaegbu/internal/txstore"
)

// app bundles the wired services behind every pipeline command.
type app struct {
	dir      string
	cfg      *config.Config
	log      zerolog.Logger
	txs      *txstore.Service
	rules    rules.Store
	accounts *accounts.Service
	recon    *recon.Service
	coord    *commit.Coordinator
	builder  *draft.Builder
	income   ledger.IncomeLedger
	expense  ledger.ExpenseLedger
	parsers  *importer.Registry
}

// loadApp loads chaegbu.yaml from dir and wires the pipeline. With a
// configured spreadsheet every store lives in the sheet; without one the
// stores are in-memory, which only makes sense for a single serve session.
func loadApp(ctx context.Context, dir string, requireSheets bool) (*app, error) {
	cfg, err := config.Load(filepath.Join(dir, "chaegbu.yaml"))
	if err != nil {
		return nil, err
	}

	accSvc, err := accounts.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading chart of accounts: %w", err)
	}

	log := logger.New()
	a := &app{dir: dir, cfg: cfg, log: log, accounts: accSvc, parsers: importer.DefaultRegistry()}

	if cfg.Sheets.SpreadsheetID == "" {
		if requireSheets {
			return nil, fmt.Errorf("sheets.spreadsheet_id is not set in chaegbu.yaml; this command needs the backing spreadsheet (run 'chaegbu serve' for a local session)")
		}
		a.txs = txstore.NewService(txstore.NewMemory(), log)
		a.rules = rules.NewMemoryStore()
		a.income = ledger.NewMemoryIncome()
		a.expense = ledger.NewMemoryExpense()
		log.Warn().Msg("no spreadsheet configured, using in-memory stores")
	} else {
		var opts []option.ClientOption
		if cfg.Sheets.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Sheets.CredentialsFile))
		}
		client, err := sheets.NewClient(ctx, cfg.Sheets.SpreadsheetID, opts...)
		if err != nil {
			return nil, err
		}
		a.txs = txstore.NewService(sheets.NewTransactionStore(client, cfg.Sheets.TransactionsTab), log)
		a.rules = sheets.NewRuleStore(client, cfg.Sheets.RulesTab)
		a.income = sheets.NewIncomeSheet(client, cfg.Sheets.IncomeTab)
		a.expense = sheets.NewExpenseSheet(client, cfg.Sheets.ExpenseTab)
	}

	a.builder = draft.NewBuilder(accSvc)
	engine := recon.NewEngine(a.builder, cfg.Matching.FallbackIncomeCode, cfg.Matching.SuggestionLimit, log)
	a.recon = recon.NewService(engine, a.txs, a.rules, cfg.Suppression.TransferPatterns, cfg.Suppression.Patterns, log)
	a.coord = commit.NewCoordinator(a.txs, a.income, a.expense, log)

	return a, nil
}
