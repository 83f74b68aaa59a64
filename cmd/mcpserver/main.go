// MCP server entry point for ContractLens.  It speaks the Model Context
// Protocol over stdio, so all logging goes to stderr.
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
	"github.com/turtacn/ContractLens/internal/interfaces/mcp"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (empty: environment only)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before configuration")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "mcpserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	logCfg := cfg.Log
	logCfg.OutputPaths = []string{"stderr"}
	log, err := logging.NewLogger(logCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.WithLogger(log))
	if err != nil {
		return err
	}
	defer app.Close()

	log.Info("starting ContractLens MCP server", logging.String("version", version))
	return mcp.NewServer(app.Service, version, log).Run(ctx)
}

//Personal.AI order the ending
