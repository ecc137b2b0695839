package engine

import (
	"fmt"

	"playercorr/domain/player"
	domainstats "playercorr/domain/stats"
	"playercorr/internal"

	"github.com/montanaflynn/stats"
)

// StatsEngine provides statistical computation capabilities
type StatsEngine struct {
	logger *internal.Logger
}

// NewStatsEngine creates a new statistical engine
func NewStatsEngine(logger *internal.Logger) *StatsEngine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &StatsEngine{logger: logger.WithComponent("stats")}
}

// SummarizeColumns profiles each variable of the filtered dataset
func (e *StatsEngine) SummarizeColumns(cols player.Columns) ([]domainstats.ColumnSummary, error) {
	vars := []player.Variable{player.VarKills, player.VarLevel, player.VarAPM}
	out := make([]domainstats.ColumnSummary, 0, len(vars))
	for _, v := range vars {
		summary, err := summarizeColumn(v, cols.Get(v))
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func summarizeColumn(v player.Variable, data []float64) (domainstats.ColumnSummary, error) {
	min, err := stats.Min(data)
	if err != nil {
		return domainstats.ColumnSummary{}, fmt.Errorf("%s min: %w", v, err)
	}
	max, err := stats.Max(data)
	if err != nil {
		return domainstats.ColumnSummary{}, fmt.Errorf("%s max: %w", v, err)
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return domainstats.ColumnSummary{}, fmt.Errorf("%s mean: %w", v, err)
	}
	// Sample deviation to match the n-1 normalisation used by the correlation.
	stdDev, err := stats.StandardDeviationSample(data)
	if err != nil {
		return domainstats.ColumnSummary{}, fmt.Errorf("%s std dev: %w", v, err)
	}
	return domainstats.ColumnSummary{
		Variable: v,
		Min:      min,
		Max:      max,
		Mean:     mean,
		StdDev:   stdDev,
	}, nil
}
