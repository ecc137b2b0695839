package ports

import (
	"io"

	"playercorr/domain/player"
	"playercorr/domain/stats"
)

// ScatterRenderer draws the multi-panel scatter/regression report
type ScatterRenderer interface {
	RenderScatter(w io.Writer, cols player.Columns, pairs []stats.PairResult) error
}

// HeatmapRenderer draws the correlation matrix
type HeatmapRenderer interface {
	RenderHeatmap(w io.Writer, matrix stats.Matrix) error
}
