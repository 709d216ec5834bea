package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/chaegbu-dev/chaegbu/internal/accounts"
	"github.com/chaegbu-dev/chaegbu/internal/commit"
	"github.com/chaegbu-dev/chaegbu/internal/model"
)

type importRow struct {
	TransactionDate time.Time       `json:"transactionDate"`
	ValueDate       time.Time       `json:"valueDate"`
	Withdrawal      decimal.Decimal `json:"withdrawal"`
	Deposit         decimal.Decimal `json:"deposit"`
	Balance         decimal.Decimal `json:"balance"`
	Description     string          `json:"description"`
	Detail          string          `json:"detail"`
	Memo            string          `json:"memo"`
}

type importRequest struct {
	Rows []importRow `json:"rows"`
}

type rejectedRow struct {
	Ref    string `json:"ref"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// handleImport accepts either a bank export file (multipart field "file",
// format selected with ?format=, default kb) or a JSON body of
// already-parsed rows. Re-uploading the same statement is a no-op.
func (s *Server) handleImport(c *fiber.Ctx) error {
	var rows []model.BankTransaction

	if fh, err := c.FormFile("file"); err == nil {
		format := c.Query("format", "kb")
		parser := s.parsers.Get(format)
		if parser == nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown statement format: "+format)
		}

		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "opening upload: "+err.Error())
		}
		defer f.Close()

		rows, err = parser.Parse(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "parsing statement: "+err.Error())
		}
	} else {
		var req importRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		for _, r := range req.Rows {
			// Bank exports sometimes omit the settlement date; posting
			// falls back to the transaction date.
			valueDate := r.ValueDate
			if valueDate.IsZero() {
				valueDate = r.TransactionDate
			}
			rows = append(rows, model.BankTransaction{
				TransactionDate: r.TransactionDate,
				ValueDate:       valueDate,
				Withdrawal:      r.Withdrawal,
				Deposit:         r.Deposit,
				Balance:         r.Balance,
				Description:     r.Description,
				Detail:          r.Detail,
				Memo:            r.Memo,
			})
		}
	}

	res, err := s.txs.ImportRows(c.UserContext(), rows)
	if err != nil {
		return err
	}

	rejected := make([]rejectedRow, 0, len(res.Rejected))
	for _, ve := range res.Rejected {
		rejected = append(rejected, rejectedRow{Ref: ve.Ref, Field: ve.Field, Reason: ve.Description})
	}

	s.recordAudit("import",
		fmt.Sprintf("%d inserted, %d duplicates, %d rejected", res.Inserted, res.Duplicates, len(res.Rejected)), "")
	return c.JSON(fiber.Map{
		"inserted":   res.Inserted,
		"duplicates": res.Duplicates,
		"rejected":   rejected,
	})
}

func (s *Server) handleListTransactions(c *fiber.Ctx) error {
	state := model.TxState(c.Query("state"))

	var (
		txs []model.BankTransaction
		err error
	)
	if state == "" {
		txs, err = s.txs.Store().List(c.UserContext())
	} else {
		txs, err = s.txs.ListByState(c.UserContext(), state)
	}
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(txs))
	for _, tx := range txs {
		items = append(items, txJSON(tx))
	}
	return c.JSON(fiber.Map{"items": items})
}

// handleMatch runs the matching pipeline over all workable transactions
// and returns the resulting drafts for review. Running it twice in a row
// is safe; already-matched rows are not reprocessed.
func (s *Server) handleMatch(c *fiber.Ctx) error {
	res, err := s.recon.Run(c.UserContext())
	if err != nil {
		return err
	}

	income := make([]fiber.Map, 0, len(res.Income))
	for _, d := range res.Income {
		income = append(income, incomeDraftJSON(d))
	}
	expense := make([]fiber.Map, 0, len(res.Expense))
	for _, d := range res.Expense {
		expense = append(expense, expenseDraftJSON(d))
	}
	review := make([]fiber.Map, 0, len(res.Review))
	for _, item := range res.Review {
		review = append(review, reviewJSON(item))
	}
	suppressed := make([]fiber.Map, 0, len(res.Suppressed))
	for _, rec := range res.Suppressed {
		suppressed = append(suppressed, fiber.Map{
			"transactionId": rec.TransactionID,
			"reason":        rec.Reason,
		})
	}

	r := res.Report
	s.recordAudit("match",
		fmt.Sprintf("%d processed, %d income, %d expense, %d review, %d suppressed",
			r.Processed, r.IncomeDrafts, r.ExpenseDrafts, r.Review, r.Suppressed), r.RunID)

	return c.JSON(fiber.Map{
		"runId":      res.Report.RunID,
		"income":     income,
		"expense":    expense,
		"review":     review,
		"suppressed": suppressed,
		"report": fiber.Map{
			"processed":     res.Report.Processed,
			"incomeDrafts":  res.Report.IncomeDrafts,
			"expenseDrafts": res.Report.ExpenseDrafts,
			"fallback":      res.Report.Fallback,
			"review":        res.Report.Review,
			"suppressed":    res.Report.Suppressed,
			"disabledRules": res.Report.DisabledRules,
		},
	})
}

type commitIncomeItem struct {
	TransactionID string          `json:"transactionId"`
	DonorName     string          `json:"donorName"`
	Amount        decimal.Decimal `json:"amount"`
	Code          string          `json:"code"`
	Note          string          `json:"note"`
}

type commitExpenseItem struct {
	TransactionID string          `json:"transactionId"`
	Vendor        string          `json:"vendor"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	AccountCode   string          `json:"accountCode"`
	Note          string          `json:"note"`
}

type commitRequest struct {
	Income     []commitIncomeItem  `json:"income"`
	Expense    []commitExpenseItem `json:"expense"`
	Suppressed []string            `json:"suppressed"`
}

// handleCommit posts an edited draft batch. The response always carries
// per-side counts; a partial failure is reported in the body, not as an
// HTTP error, so the UI can offer a retry of exactly the failed rows.
func (s *Server) handleCommit(c *fiber.Ctx) error {
	var req commitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ctx := c.UserContext()
	creq := commit.Request{}

	for _, item := range req.Income {
		tx, err := s.txs.Store().Get(ctx, item.TransactionID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown transaction: "+item.TransactionID)
		}
		creq.Income = append(creq.Income, model.IncomeDraft{
			TransactionID: item.TransactionID,
			Date:          tx.ValueDate,
			DonorName:     item.DonorName,
			Amount:        item.Amount,
			Code:          item.Code,
			Label:         s.accounts.Label(item.Code),
			Note:          item.Note,
		})
	}
	for _, item := range req.Expense {
		tx, err := s.txs.Store().Get(ctx, item.TransactionID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown transaction: "+item.TransactionID)
		}
		creq.Expense = append(creq.Expense, model.ExpenseDraft{
			TransactionID: item.TransactionID,
			Date:          tx.ValueDate,
			Vendor:        item.Vendor,
			Description:   item.Description,
			Amount:        item.Amount,
			AccountCode:   item.AccountCode,
			Label:         s.accounts.Label(item.AccountCode),
			Note:          item.Note,
		})
	}
	for _, id := range req.Suppressed {
		creq.Suppressed = append(creq.Suppressed, commit.SuppressedInput{TransactionID: id})
	}

	res, err := s.commit.Commit(ctx, creq)
	if err != nil {
		var pwe *model.PartialWriteError
		if !errors.As(err, &pwe) {
			return err
		}
	}

	failed := res.FailedTransactionIDs
	if failed == nil {
		failed = []string{}
	}

	s.recordAudit("commit",
		fmt.Sprintf("%d income, %d expense posted; %d suppressed; %d failed",
			res.IncomeCount, res.ExpenseCount, res.SuppressedCount, len(failed)), "")
	return c.JSON(fiber.Map{
		"incomeSuccess":        res.IncomeSuccess,
		"incomeCount":          res.IncomeCount,
		"incomeTotal":          res.IncomeTotal,
		"expenseSuccess":       res.ExpenseSuccess,
		"expenseCount":         res.ExpenseCount,
		"expenseTotal":         res.ExpenseTotal,
		"suppressedCount":      res.SuppressedCount,
		"alreadyConfirmed":     res.AlreadyConfirmed,
		"failedTransactionIds": failed,
	})
}

func (s *Server) handleListRules(c *fiber.Ctx) error {
	loaded, err := s.ruleStore.LoadRules(c.UserContext())
	if err != nil {
		return model.FatalConfigError{Source: "rules", Err: err}
	}

	items := make([]fiber.Map, 0, len(loaded))
	for _, r := range loaded {
		items = append(items, ruleJSON(r))
	}
	return c.JSON(fiber.Map{"items": items})
}

type addRuleRequest struct {
	PatternType string `json:"patternType"`
	Pattern     string `json:"pattern"`
	TargetType  string `json:"targetType"`
	TargetCode  string `json:"targetCode"`
	Priority    int    `json:"priority"`
	Active      *bool  `json:"active"`
}

// handleAddRule appends a matching rule. New rules take effect on the
// next matching run; the current run's snapshot is never touched.
func (s *Server) handleAddRule(c *fiber.Ctx) error {
	var req addRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Pattern) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "pattern is required")
	}
	pt := model.PatternType(req.PatternType)
	if pt != model.PatternExact && pt != model.PatternContains && pt != model.PatternRegex {
		return fiber.NewError(fiber.StatusBadRequest, "patternType must be exact, contains, or regex")
	}
	tt := model.TargetType(req.TargetType)
	if tt != model.TargetIncome && tt != model.TargetExpense {
		return fiber.NewError(fiber.StatusBadRequest, "targetType must be income or expense")
	}
	if !s.accounts.Exists(req.TargetCode) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown target code: "+req.TargetCode)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	rule, err := s.ruleStore.AddRule(c.UserContext(), model.MatchingRule{
		PatternType: pt,
		Pattern:     req.Pattern,
		TargetType:  tt,
		TargetCode:  req.TargetCode,
		Priority:    req.Priority,
		Active:      active,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ruleJSON(rule))
}

func (s *Server) handleListAccounts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"offerings": accountsJSON(s.accounts.ByKind(accounts.KindOffering)),
		"expenses":  accountsJSON(s.accounts.ByKind(accounts.KindExpense)),
	})
}

func txJSON(tx model.BankTransaction) fiber.Map {
	return fiber.Map{
		"id":               tx.ID,
		"transactionDate":  tx.TransactionDate,
		"valueDate":        tx.ValueDate,
		"withdrawal":       tx.Withdrawal,
		"deposit":          tx.Deposit,
		"balance":          tx.Balance,
		"description":      tx.Description,
		"detail":           tx.Detail,
		"memo":             tx.Memo,
		"state":            tx.State,
		"suppressedReason": tx.SuppressedReason,
	}
}

func incomeDraftJSON(d model.IncomeDraft) fiber.Map {
	return fiber.Map{
		"transactionId": d.TransactionID,
		"date":          d.Date,
		"donorName":     d.DonorName,
		"amount":        d.Amount,
		"code":          d.Code,
		"label":         d.Label,
		"note":          d.Note,
	}
}

func expenseDraftJSON(d model.ExpenseDraft) fiber.Map {
	return fiber.Map{
		"transactionId": d.TransactionID,
		"date":          d.Date,
		"vendor":        d.Vendor,
		"description":   d.Description,
		"amount":        d.Amount,
		"accountCode":   d.AccountCode,
		"label":         d.Label,
		"note":          d.Note,
	}
}

func reviewJSON(item model.ReviewItem) fiber.Map {
	suggestions := make([]fiber.Map, 0, len(item.Suggestions))
	for _, sug := range item.Suggestions {
		suggestions = append(suggestions, fiber.Map{
			"rule":    ruleJSON(sug.Rule),
			"overlap": sug.Overlap,
		})
	}
	return fiber.Map{
		"transaction": txJSON(item.Transaction),
		"suggestions": suggestions,
	}
}

func ruleJSON(r model.MatchingRule) fiber.Map {
	return fiber.Map{
		"id":          r.ID,
		"patternType": r.PatternType,
		"pattern":     r.Pattern,
		"targetType":  r.TargetType,
		"targetCode":  r.TargetCode,
		"priority":    r.Priority,
		"seq":         r.Seq,
		"active":      r.Active,
	}
}

func accountsJSON(accts []accounts.Account) []fiber.Map {
	items := make([]fiber.Map, 0, len(accts))
	for _, a := range accts {
		items = append(items, fiber.Map{
			"code":        a.Code,
			"name":        a.Name,
			"kind":        a.Kind,
			"description": a.Description,
		})
	}
	return items
}
