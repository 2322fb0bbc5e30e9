package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 203, cfg.Printer.DPI)
	assert.Equal(t, 8, cfg.Printer.Density)
	assert.Equal(t, 56.0, cfg.Label.WidthMM)
	assert.Equal(t, 31.0, cfg.Label.HeightMM)
	assert.Equal(t, 3.0, cfg.Label.GapMM)
	assert.Equal(t, 3, cfg.Spooler.ConnectRetries)
	assert.Equal(t, time.Second, cfg.Spooler.RetryDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Spooler.InterLabelDelay)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad(t *testing.T) {
	yaml := `
printer:
  address: "AA:BB:CC:DD:EE:FF"
  model: "MUNBYN ITPP941"
  density: 12
label:
  width_mm: 60
  height_mm: 40
spooler:
  connect_retries: 5
  inter_label_delay_ms: 250
logging:
  level: debug
  format: json
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "AA:BB:CC:DD:EE:FF", cfg.Printer.Address)
	assert.Equal(t, "MUNBYN ITPP941", cfg.Printer.Model)
	assert.Equal(t, 12, cfg.Printer.Density)
	assert.Equal(t, 60.0, cfg.Label.WidthMM)
	assert.Equal(t, 5, cfg.Spooler.ConnectRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Spooler.InterLabelDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields still get defaults.
	assert.Equal(t, 203, cfg.Printer.DPI)
	assert.Equal(t, 3.0, cfg.Label.GapMM)
	assert.Equal(t, time.Second, cfg.Spooler.RetryDelay)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
