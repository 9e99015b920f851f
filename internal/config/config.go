// Package config assembles the scheduler's runtime settings from defaults,
// an optional JSON file and command-line flags, in that order of precedence.
package config

import "time"

// Config holds runtime settings for the scheduler.
//
// Fields:
//   - DatabaseDriver: database/sql driver name, "sqlite" or "pgx".
//   - DatabaseDSN: data source name for that driver.
//   - TxTimeout: upper bound on a single reservation transaction.
//   - LogLevel: debug, info, warn or error.
//   - LogBackend: "slog" or "zap".
//   - OTLPEndpoint: host:port of an OTLP/HTTP collector; empty disables export.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string
	TxTimeout      time.Duration
	LogLevel       string
	LogBackend     string
	OTLPEndpoint   string
}

// LoadDefaults populates Config with development defaults: a local SQLite
// file and quiet logging.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:scheduler.db"
	c.TxTimeout = 5 * time.Second
	c.LogLevel = "warn"
	c.LogBackend = "slog"
	c.OTLPEndpoint = ""
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// the remaining flags found in args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
