package config

import (
	"testing"

	"playercorr/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATA_FILE", "SCATTER_OUTPUT", "HEATMAP_OUTPUT", "MIN_LEVEL", "MIN_APM",
		"PANEL_WIDTH", "PANEL_HEIGHT", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "data.json", cfg.Paths.DataFile)
	assert.Equal(t, "corr.png", cfg.Paths.ScatterOutput)
	assert.Equal(t, "heatmap.png", cfg.Paths.HeatmapOutput)
	assert.Equal(t, 90.0, cfg.Filter.MinLevel)
	assert.Equal(t, 0.0, cfg.Filter.MinAPM)
	assert.Equal(t, 1000, cfg.Chart.PanelWidth)
	assert.Equal(t, 330, cfg.Chart.PanelHeight)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_FILE", "/tmp/players.json")
	t.Setenv("MIN_LEVEL", "100.5")
	t.Setenv("MIN_APM", "10")
	t.Setenv("PANEL_WIDTH", "640")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/players.json", cfg.Paths.DataFile)
	assert.Equal(t, 100.5, cfg.Filter.MinLevel)
	assert.Equal(t, 10.0, cfg.Filter.MinAPM)
	assert.Equal(t, 640, cfg.Chart.PanelWidth)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestFromEnv_UnparsableNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIN_LEVEL", "ninety")
	t.Setenv("PANEL_HEIGHT", "tall")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 90.0, cfg.Filter.MinLevel)
	assert.Equal(t, 330, cfg.Chart.PanelHeight)
}

func TestFromEnv_InvalidDimensions(t *testing.T) {
	clearEnv(t)
	t.Setenv("PANEL_WIDTH", "0")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := &Config{
		Paths: PathConfig{DataFile: "data.json", ScatterOutput: "", HeatmapOutput: "h.png"},
		Chart: ChartConfig{PanelWidth: 10, PanelHeight: 10},
	}
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scatter output")
}
