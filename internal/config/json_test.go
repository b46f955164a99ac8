package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o660))
	return path
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"cmd"}, args...)
}

func TestParseJson_OverridesProvidedFields(t *testing.T) {
	path := writeConfigFile(t, `{"data_dir":"/var/rv","kdf_iterations":50000,"db_busy_timeout":"8s"}`)
	withArgs(t, "-c", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "/var/rv", cfg.DataDir)
	assert.Equal(t, 50000, cfg.KDFIterations)
	assert.Equal(t, 8*time.Second, cfg.DBBusyTimeout)
	assert.Equal(t, "exports", cfg.ExportDir, "fields absent from JSON keep their defaults")
}

func TestParseJson_NoFlagIsNoop(t *testing.T) {
	withArgs(t)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "data", cfg.DataDir)
}

func TestParseJson_PanicsOnBadFile(t *testing.T) {
	withArgs(t, "-c", filepath.Join(t.TempDir(), "missing.json"))

	cfg := &Config{}
	cfg.LoadDefaults()
	require.Panics(t, func() { parseJson(cfg) })
}

func TestParseJson_PanicsOnBadJSON(t *testing.T) {
	path := writeConfigFile(t, `{not json`)
	withArgs(t, "-c", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	require.Panics(t, func() { parseJson(cfg) })
}
