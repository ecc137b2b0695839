package config

import (
	"os"
	"strconv"

	"playercorr/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Paths  PathConfig
	Filter FilterConfig
	Chart  ChartConfig
	Log    LogConfig
}

// PathConfig holds input and output file locations
type PathConfig struct {
	DataFile      string
	ScatterOutput string
	HeatmapOutput string
}

// FilterConfig holds the record selection thresholds (strict comparisons)
type FilterConfig struct {
	MinLevel float64
	MinAPM   float64
}

// ChartConfig holds rendering dimensions in pixels
type ChartConfig struct {
	PanelWidth  int
	PanelHeight int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads .env (when present) and environment variables, then validates
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only
func FromEnv() (*Config, error) {
	config := &Config{
		Paths: PathConfig{
			DataFile:      getEnvOrDefault("DATA_FILE", "data.json"),
			ScatterOutput: getEnvOrDefault("SCATTER_OUTPUT", "corr.png"),
			HeatmapOutput: getEnvOrDefault("HEATMAP_OUTPUT", "heatmap.png"),
		},
		Filter: FilterConfig{
			MinLevel: getEnvFloatOrDefault("MIN_LEVEL", 90),
			MinAPM:   getEnvFloatOrDefault("MIN_APM", 0),
		},
		Chart: ChartConfig{
			PanelWidth:  getEnvIntOrDefault("PANEL_WIDTH", 1000),
			PanelHeight: getEnvIntOrDefault("PANEL_HEIGHT", 330),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks required fields and ranges
func Validate(config *Config) error {
	if config.Paths.DataFile == "" {
		return errors.ConfigInvalid("data file path is required")
	}
	if config.Paths.ScatterOutput == "" {
		return errors.ConfigInvalid("scatter output path is required")
	}
	if config.Paths.HeatmapOutput == "" {
		return errors.ConfigInvalid("heatmap output path is required")
	}
	if config.Chart.PanelWidth <= 0 || config.Chart.PanelHeight <= 0 {
		return errors.ConfigInvalid("panel dimensions must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
