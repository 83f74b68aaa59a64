// Audit archiver entry point for ContractLens.  The worker consumes the
// audit topic and writes JSON-lines batches to the audit bucket.
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

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (empty: environment only)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before configuration")
	healthPort := flag.Int("health-port", 0, "probe server port (overrides config)")
	batchSize := flag.Int("batch-size", 0, "records per archived batch (overrides config)")
	flag.Parse()

	if err := run(*configPath, *envFile, *healthPort, *batchSize); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string, healthPort, batchSize int) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if healthPort > 0 {
		cfg.Worker.HealthPort = healthPort
	}
	if batchSize > 0 {
		cfg.Worker.BatchSize = batchSize
	}
	if !cfg.Kafka.Enabled || !cfg.MinIO.Enabled {
		return fmt.Errorf("kafka.enabled and minio.enabled must both be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The worker only reads; text generation is never used.
	app, err := bootstrap.New(ctx, cfg, bootstrap.WithoutTextGen())
	if err != nil {
		return err
	}
	defer app.Close()

	app.Logger.Info("starting ContractLens audit worker",
		logging.String("version", version),
		logging.Strings("brokers", cfg.Kafka.Brokers),
		logging.String("group_id", cfg.Kafka.GroupID),
		logging.String("audit_bucket", cfg.MinIO.AuditBucket))

	if err := bootstrap.RunAuditWorker(ctx, app, version); err != nil {
		app.Logger.Error("audit worker stopped with error", logging.Err(err))
		return err
	}
	app.Logger.Info("audit worker stopped")
	return nil
}

//Personal.AI order the ending
