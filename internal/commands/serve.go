package commands

import (
	"github.com/spf13/cobra"

	"github.com/chaegbu-dev/chaegbu/internal/auditlog"
	"github.com/chaegbu-dev/chaegbu/internal/server"
)

func newServeCommand() *cobra.Command {
	var dir string
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reconciliation web API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), dir, false)
			if err != nil {
				return err
			}

			addr := listen
			if addr == "" {
				addr = a.cfg.Server.Listen
			}

			srv := server.New(a.txs, a.rules, a.accounts, a.recon, a.coord, a.parsers, auditlog.NewLogger(a.dir), a.log)
			a.log.Info().Str("addr", addr).Str("church", a.cfg.Church.Name).Msg("starting server")
			return srv.App().Listen(addr)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides chaegbu.yaml)")

	return cmd
}
