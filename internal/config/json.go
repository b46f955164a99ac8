package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/receiptvault/internal/flagx"
	"github.com/dmitrijs2005/receiptvault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	DataDir       string         `json:"data_dir"`
	ExportDir     string         `json:"export_dir"`
	KDFIterations int            `json:"kdf_iterations"`
	DBBusyTimeout timex.Duration `json:"db_busy_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when absent, nothing is loaded.
// Only fields present in the JSON override the existing values. Panics on
// read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.ExportDir != "" {
		cfg.ExportDir = jc.ExportDir
	}
	if jc.KDFIterations > 0 {
		cfg.KDFIterations = jc.KDFIterations
	}
	if jc.DBBusyTimeout.Duration > 0 {
		cfg.DBBusyTimeout = time.Duration(jc.DBBusyTimeout.Duration)
	}
}
