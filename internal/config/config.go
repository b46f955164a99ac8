// Package config holds runtime settings for the ReceiptVault CLI, layered
// from defaults, an optional JSON file and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/receiptvault/internal/cryptox"
)

// Config holds runtime settings for the ReceiptVault CLI.
//
// Fields:
//   - DataDir: where the record database, attachments and device secrets live.
//   - ExportDir: where backup archives are written.
//   - KDFIterations: password key-derivation work factor.
//   - DBBusyTimeout: how long sqlite waits on a locked database.
type Config struct {
	DataDir       string
	ExportDir     string
	KDFIterations int
	DBBusyTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.ExportDir = "exports"
	c.KDFIterations = cryptox.DefaultIterations
	c.DBBusyTimeout = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
