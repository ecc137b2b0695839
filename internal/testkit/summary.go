package testkit

import (
	"time"

	"playercorr/domain/core"
	"playercorr/domain/player"
	"playercorr/domain/stats"

	"gonum.org/v1/gonum/mat"
)

// FixtureSummary returns a small hand-built summary for exporter tests
func FixtureSummary() *stats.Summary {
	filtered := player.Dataset{
		{Kills: 0.1, Level: 95, APM: 50},
		{Kills: 0.2, Level: 92, APM: 60},
	}
	pairs := make([]stats.PairResult, len(stats.ReportPairs))
	for i, p := range stats.ReportPairs {
		pairs[i] = stats.PairResult{
			Pair: p,
			Result: stats.CorrelationResult{
				Coefficient: 1,
				PValue:      1,
				Slope:       0.01,
				Intercept:   -0.4,
				N:           2,
			},
		}
	}
	return &stats.Summary{
		RunID:        core.RunID("0190f3c4-aaaa-7bbb-8ccc-123456789abc"),
		GeneratedAt:  core.NewTimestamp(time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)),
		DatasetHash:  filtered.Fingerprint(),
		TotalRecords: 4,
		Filtered:     filtered,
		Columns: []stats.ColumnSummary{
			{Variable: player.VarKills, Min: 0.1, Max: 0.2, Mean: 0.15, StdDev: 0.0707},
		},
		Pairs: pairs,
		Matrix: stats.Matrix{
			Labels: []string{"Level", "APM", "Kills"},
			Values: mat.NewSymDense(3, []float64{
				1, -1, -1,
				-1, 1, 1,
				-1, 1, 1,
			}),
		},
		Criteria: player.DefaultCriteria,
	}
}
