// API server entry point for ContractLens.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/ContractLens/internal/bootstrap"
	"github.com/turtacn/ContractLens/internal/config"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (empty: environment only)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before configuration")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *envFile, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string, port int) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if configPath != "" {
		watchLogLevel(configPath, app.Logger)
	}

	app.Logger.Info("starting ContractLens API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("textgen", app.TextGen != nil),
		logging.Bool("kafka", app.Producer != nil),
		logging.Bool("minio", app.Archive != nil))

	if err := bootstrap.RunAPIServer(ctx, app, version); err != nil {
		app.Logger.Error("API server stopped with error", logging.Err(err))
		return err
	}
	app.Logger.Info("API server stopped")
	return nil
}

// watchLogLevel applies log.level changes in the config file without a
// restart.  Every other setting needs one.
func watchLogLevel(path string, log logging.Logger) {
	err := config.Watch(path, func(cfg *config.Config) {
		if ok, err := logging.SetLevel(log, cfg.Log.Level); err != nil {
			log.Warn("ignoring log level change", logging.Err(err))
		} else if ok {
			log.Info("log level changed", logging.String("level", cfg.Log.Level))
		}
	}, func(err error) {
		log.Warn("config reload rejected", logging.Err(err))
	})
	if err != nil {
		log.Warn("config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
