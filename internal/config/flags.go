package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Rujyng/Vaccine-Scheduler/internal/flagx"
)

// parseFlags overlays command-line flags.
//
// Supported flags (short forms):
//
//	-r string   database driver (sqlite | pgx)
//	-d string   database DSN
//	-t int      transaction timeout, seconds
//	-l string   log level (debug | info | warn | error)
//	-g string   log backend (slog | zap)
//	-o string   OTLP/HTTP collector endpoint, host:port
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-r", "-d", "-t", "-l", "-g", "-o"})

	fs := flag.NewFlagSet("scheduler", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.DatabaseDriver, "r", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	txTimeout := fs.Int("t", 0, "transaction timeout (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogBackend, "g", config.LogBackend, "log backend")
	fs.StringVar(&config.OTLPEndpoint, "o", config.OTLPEndpoint, "OTLP endpoint")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// -t replaces the timeout only when given, so a finer JSON value survives.
	timeoutSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			timeoutSet = true
		}
	})
	if !timeoutSet {
		return nil
	}
	if *txTimeout <= 0 {
		return fmt.Errorf("transaction timeout must be positive, got %d", *txTimeout)
	}

	config.TxTimeout = time.Duration(*txTimeout) * time.Second
	return nil
}
