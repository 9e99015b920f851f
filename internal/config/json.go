package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rujyng/Vaccine-Scheduler/internal/flagx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. TxTimeout accepts
// "5s" style strings or integer nanoseconds.
type JsonConfig struct {
	DatabaseDriver string         `json:"database_driver"`
	DatabaseDSN    string         `json:"database_dsn"`
	TxTimeout      timex.Duration `json:"tx_timeout"`
	LogLevel       string         `json:"log_level"`
	LogBackend     string         `json:"log_backend"`
	OTLPEndpoint   string         `json:"otlp_endpoint"`
}

// parseJson overlays the fields present in the file named by -c/-config.
// Absent or empty fields keep their current value.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)
	if c.TxTimeout.Duration > 0 {
		config.TxTimeout = c.TxTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
