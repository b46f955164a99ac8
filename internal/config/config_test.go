package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/receiptvault/internal/cryptox"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, "exports", c.ExportDir)
	assert.Equal(t, cryptox.DefaultIterations, c.KDFIterations)
	assert.Equal(t, 5*time.Second, c.DBBusyTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, cryptox.DefaultIterations, cfg.KDFIterations)
}
