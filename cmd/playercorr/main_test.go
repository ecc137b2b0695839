package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"playercorr/internal/config"
	"playercorr/internal/errors"
	"playercorr/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	raw, err := testkit.EncodeJSON(testkit.NewPlayerGenerator(12).Generate(150))
	require.NoError(t, err)
	dataPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, raw, 0o644))

	return &config.Config{
		Paths: config.PathConfig{
			DataFile:      dataPath,
			ScatterOutput: filepath.Join(dir, "corr.png"),
			HeatmapOutput: filepath.Join(dir, "heatmap.png"),
		},
		Filter: config.FilterConfig{MinLevel: 90, MinAPM: 0},
		Chart:  config.ChartConfig{PanelWidth: 400, PanelHeight: 180},
		Log:    config.LogConfig{Level: "ERROR"},
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_DefaultsToScatter(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg)
	require.NoError(t, err)
	assert.FileExists(t, cfg.Paths.ScatterOutput)
	assert.NoFileExists(t, cfg.Paths.HeatmapOutput)
	assert.Contains(t, out, "Percent of kills / APM")
	assert.Contains(t, out, "p-value:")
}

func TestAll_WritesBothImages(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	scatter := filepath.Join(dir, "s.png")
	heatmap := filepath.Join(dir, "h.png")

	_, err := run(t, cfg, "all", "--scatter-out", scatter, "--heatmap-out", heatmap)
	require.NoError(t, err)
	assert.FileExists(t, scatter)
	assert.FileExists(t, heatmap)
}

func TestSummary_Exports(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "s.xlsx")
	html := filepath.Join(dir, "s.html")

	out, err := run(t, cfg, "summary", "--xlsx", xlsx, "--html", html)
	require.NoError(t, err)
	assert.Contains(t, out, "## Correlation matrix")
	assert.FileExists(t, xlsx)
	assert.FileExists(t, html)
}

func TestFilterFlagsOverrideConfig(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, cfg, "heatmap", "--min-level", "5000")
	require.Error(t, err)
	assert.Equal(t, "filter", stageOrUnknown(err))
	assert.NoFileExists(t, cfg.Paths.HeatmapOutput)
}

func TestMissingDataFile(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, cfg, "scatter", "--data", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, "load", stageOrUnknown(err))
}

func TestUsageErrorsAreConfigErrors(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, cfg, "scatter", "--no-such-flag")
	require.Error(t, err)
	classified := usageError(err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(classified))
	assert.Equal(t, "config", stageOrUnknown(classified))

	_, err = run(t, cfg, "heatmap", "--min-level", "5000")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(usageError(err)))
	assert.Nil(t, usageError(nil))
}
