package main

import (
	"context"
	"log"
	"os"

	"github.com/Rujyng/Vaccine-Scheduler/internal/buildinfo"
	"github.com/Rujyng/Vaccine-Scheduler/internal/cli"
	"github.com/Rujyng/Vaccine-Scheduler/internal/config"
	"github.com/Rujyng/Vaccine-Scheduler/internal/logging"
	"github.com/Rujyng/Vaccine-Scheduler/internal/observability"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if z, ok := logger.(*logging.ZapLogger); ok {
		defer z.Sync()
	}

	shutdown, err := observability.SetupTracing(ctx, cfg.OTLPEndpoint, buildinfo.Version)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn(context.Background(), "tracing shutdown failed", "error", err)
		}
	}()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return
	}
	defer app.Close()

	app.Run(ctx, os.Stdin)

}
