package stats

import (
	"playercorr/domain/core"
	"playercorr/domain/player"

	"gonum.org/v1/gonum/mat"
)

// ============================================================================
// PAIRWISE RESULTS
// ============================================================================

// CorrelationResult holds Pearson and OLS statistics for one (x, y) pair
// INVARIANTS:
// - Coefficient in [-1, 1]
// - PValue in [0, 1]
// - N >= 2
type CorrelationResult struct {
	Coefficient float64 `json:"coefficient"`
	PValue      float64 `json:"p_value"`
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	N           int     `json:"n"`
}

// Predict evaluates the regression line at x
func (r CorrelationResult) Predict(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// Pair describes one panel of the scatter report
type Pair struct {
	X      player.Variable `json:"x"`
	Y      player.Variable `json:"y"`
	XLabel string          `json:"x_label"`
	YLabel string          `json:"y_label"`
	Title  string          `json:"title"`
}

// Name returns a compact "y~x" identifier
func (p Pair) Name() string {
	return string(p.Y) + "~" + string(p.X)
}

// ReportPairs are the three panels in presentation order
var ReportPairs = []Pair{
	{
		X:      player.VarAPM,
		Y:      player.VarKills,
		XLabel: "Player APM",
		YLabel: "Percent of kills",
		Title:  "Percent of kills / APM",
	},
	{
		X:      player.VarLevel,
		Y:      player.VarKills,
		XLabel: "Player ascension level",
		YLabel: "Percent of kills",
		Title:  "Percent of kills / player ascension level",
	},
	{
		X:      player.VarLevel,
		Y:      player.VarAPM,
		XLabel: "Player ascension level",
		YLabel: "Player APM",
		Title:  "APM / player ascension level",
	},
}

// PairResult couples a pair definition with its statistics
type PairResult struct {
	Pair   Pair              `json:"pair"`
	Result CorrelationResult `json:"result"`
}

// ============================================================================
// MATRIX
// ============================================================================

// MatrixVariables is the heatmap row/column order
var MatrixVariables = []player.Variable{player.VarLevel, player.VarAPM, player.VarKills}

// MatrixLabels are the display names matching MatrixVariables
var MatrixLabels = []string{"Level", "APM", "Kills"}

// Matrix is a symmetric correlation matrix with unit diagonal
type Matrix struct {
	Labels []string
	Values *mat.SymDense
}

// At returns the coefficient at (i, j)
func (m Matrix) At(i, j int) float64 {
	return m.Values.At(i, j)
}

// Size returns the number of variables
func (m Matrix) Size() int {
	return m.Values.SymmetricDim()
}

// ============================================================================
// SUMMARIES
// ============================================================================

// ColumnSummary describes one variable of the filtered dataset
type ColumnSummary struct {
	Variable player.Variable `json:"variable"`
	Min      float64         `json:"min"`
	Max      float64         `json:"max"`
	Mean     float64         `json:"mean"`
	StdDev   float64         `json:"std_dev"`
}

// Summary is the complete numeric output of one run
type Summary struct {
	RunID        core.RunID      `json:"run_id"`
	GeneratedAt  core.Timestamp  `json:"-"`
	DatasetHash  core.Hash       `json:"dataset_hash"`
	TotalRecords int             `json:"total_records"`
	Filtered     player.Dataset  `json:"-"`
	Columns      []ColumnSummary `json:"columns"`
	Pairs        []PairResult    `json:"pairs"`
	Matrix       Matrix          `json:"-"`
	Criteria     player.Criteria `json:"filter"`
}
