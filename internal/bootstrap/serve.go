package bootstrap

import (
	"context"

	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/ContractLens/internal/interfaces/http"
)

// RunAPIServer serves the HTTP API until ctx is cancelled, then drains
// in-flight requests within the configured shutdown timeout.
func RunAPIServer(ctx context.Context, app *App, version string) error {
	srv := httpapi.NewServer(app.Config.Server, app.Router(version), app.Logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.Logger.Info("shutdown requested", logging.String("addr", srv.Addr()))
	shutdownCtx, cancel := app.ShutdownContext()
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

//Personal.AI order the ending
