// Package server exposes the reconciliation pipeline over HTTP for the
// treasurer-facing web UI. The UI only displays and edits drafts produced
// here; it never re-derives classification on its own.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/chaegbu-dev/chaegbu/internal/accounts"
	"github.com/chaegbu-dev/chaegbu/internal/auditlog"
	"github.com/chaegbu-dev/chaegbu/internal/commit"
	"github.com/chaegbu-dev/chaegbu/internal/importer"
	"github.com/chaegbu-dev/chaegbu/internal/model"
	"github.com/chaegbu-dev/chaegbu/internal/recon"
	"github.com/chaegbu-dev/chaegbu/internal/rules"
	"github.com/chaegbu-dev/chaegbu/internal/txstore"
)

// Server wires the pipeline services to the HTTP surface.
type Server struct {
	txs       *txstore.Service
	ruleStore rules.Store
	accounts  *accounts.Service
	recon     *recon.Service
	commit    *commit.Coordinator
	parsers   *importer.Registry
	audit     *auditlog.Logger
	log       zerolog.Logger
}

// New creates a Server over the given services.
func New(txs *txstore.Service, ruleStore rules.Store, accSvc *accounts.Service, reconSvc *recon.Service, coord *commit.Coordinator, parsers *importer.Registry, audit *auditlog.Logger, log zerolog.Logger) *Server {
	return &Server{
		txs:       txs,
		ruleStore: ruleStore,
		accounts:  accSvc,
		recon:     reconSvc,
		commit:    coord,
		parsers:   parsers,
		audit:     audit,
		log:       log,
	}
}

// recordAudit appends one audit entry for a web action. The action
// itself already succeeded, so an audit write failure is logged rather
// than turned into a request error.
func (s *Server) recordAudit(action, details, runID string) {
	entry := auditlog.Entry{
		Timestamp: time.Now(),
		Actor:     "web",
		Action:    action,
		Details:   details,
		RunID:     runID,
	}
	if err := s.audit.Append([]auditlog.Entry{entry}); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("writing audit log failed")
	}
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "chaegbu",
		ErrorHandler: s.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,OPTIONS",
	}))
	app.Use(s.requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	api := app.Group("/api")
	api.Post("/transactions/import", s.handleImport)
	api.Get("/transactions", s.handleListTransactions)
	api.Post("/reconcile/match", s.handleMatch)
	api.Post("/reconcile/commit", s.handleCommit)
	api.Get("/rules", s.handleListRules)
	api.Post("/rules", s.handleAddRule)
	api.Get("/accounts", s.handleListAccounts)

	return app
}

// errorHandler maps the error taxonomy to HTTP statuses. An unreachable
// rule store is the upstream's fault, not the client's.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	var verr model.ValidationError
	var fatal model.FatalConfigError
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.As(err, &verr):
		code = fiber.StatusBadRequest
		message = verr.Error()
	case errors.As(err, &fatal):
		code = fiber.StatusBadGateway
		message = fatal.Error()
	default:
		s.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		s.log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Msg("request")
		return err
	}
}
