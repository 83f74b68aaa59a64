package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/ContractLens/internal/bootstrap"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
)

// NewServeCmd runs the HTTP API in the foreground.
func NewServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := *cliCtx.Config
			if port > 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.New(ctx, &cfg, bootstrap.WithLogger(cliCtx.Logger))
			if err != nil {
				return err
			}
			defer app.Close()

			app.Logger.Info("starting contractlens API", logging.String("version", Version), logging.String("addr", cfg.Server.Addr()))
			return bootstrap.RunAPIServer(ctx, app, Version)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

//Personal.AI order the ending
