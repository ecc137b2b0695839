// Package report holds the display policy shared by the renderers and exporters:
// number formats, axis decisions derived from data magnitude, and fixed labels.
package report

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// ReportTitle heads the scatter report. The level range is descriptive only.
const ReportTitle = "Correlations between ascension levels (91–1000), APM and percentage of kills"

const (
	// percentCeiling: series whose maximum stays below this are fractions
	percentCeiling = 1.5
	// clipThreshold: series whose maximum exceeds this get a fixed range
	clipThreshold = 100
	clipMin       = 0
	clipMax       = 200
)

// AxisConfig is the y-axis display decision for one panel
type AxisConfig struct {
	Percent bool
	Clip    bool
	Min     float64
	Max     float64
}

// AxisPolicy derives the y-axis configuration from the plotted values
func AxisPolicy(values []float64) AxisConfig {
	max, err := stats.Max(values)
	if err != nil {
		return AxisConfig{}
	}
	cfg := AxisConfig{Percent: max < percentCeiling}
	if max > clipThreshold {
		cfg.Clip = true
		cfg.Min = clipMin
		cfg.Max = clipMax
	}
	return cfg
}

// FormatTick renders a y tick value under the axis configuration
func (c AxisConfig) FormatTick(v float64) string {
	if c.Percent {
		return FormatPercent(v)
	}
	return fmt.Sprintf("%g", v)
}

// FormatCoefficient formats a correlation coefficient
func FormatCoefficient(r float64) string {
	return fmt.Sprintf("%.3f", r)
}

// FormatPValue formats a p-value in scientific notation
func FormatPValue(p float64) string {
	return fmt.Sprintf("%.3e", p)
}

// FormatSlope formats a regression slope in scientific notation
func FormatSlope(s float64) string {
	return fmt.Sprintf("%.3e", s)
}

// FormatIntercept formats a regression intercept
func FormatIntercept(b float64) string {
	return fmt.Sprintf("%.2f", b)
}

// FormatCell formats a heatmap cell
func FormatCell(r float64) string {
	return fmt.Sprintf("%.2f", r)
}

// FormatPercent formats a fraction as a whole percentage, 0.25 -> "25%"
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// CorrelationLabel is the large annotation on each panel
func CorrelationLabel(r float64) string {
	return "Correlation: " + FormatCoefficient(r)
}

// PValueLabel is the small annotation under the correlation
func PValueLabel(p float64) string {
	return "p-value: " + FormatPValue(p)
}

// RegressionLabel is the legend entry of the regression line
func RegressionLabel(slope, intercept float64) string {
	return fmt.Sprintf("Linear regression: %s*x + %s", FormatSlope(slope), FormatIntercept(intercept))
}
