package app

import (
	"context"
	"io"

	"playercorr/adapters/stats/engine"
	"playercorr/domain/core"
	"playercorr/domain/player"
	"playercorr/domain/stats"
	"playercorr/internal"
	"playercorr/internal/errors"
	"playercorr/internal/fileutil"
	"playercorr/ports"
)

// CorrelationService runs load -> filter -> statistics and hands the result to a sink
type CorrelationService struct {
	source   ports.DatasetSource
	engine   *engine.StatsEngine
	scatter  ports.ScatterRenderer
	heatmap  ports.HeatmapRenderer
	criteria player.Criteria
	logger   *internal.Logger
}

// NewCorrelationService wires the pipeline stages
func NewCorrelationService(
	source ports.DatasetSource,
	statsEngine *engine.StatsEngine,
	scatter ports.ScatterRenderer,
	heatmap ports.HeatmapRenderer,
	criteria player.Criteria,
	logger *internal.Logger,
) *CorrelationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CorrelationService{
		source:   source,
		engine:   statsEngine,
		scatter:  scatter,
		heatmap:  heatmap,
		criteria: criteria,
		logger:   logger.WithComponent("pipeline"),
	}
}

// Analysis is one run's filtered data and its aligned columns
type Analysis struct {
	RunID        core.RunID
	DatasetHash  core.Hash
	TotalRecords int
	Filtered     player.Dataset
	Columns      player.Columns
}

// Prepare loads and filters the dataset, rejecting results too small to correlate
func (s *CorrelationService) Prepare(ctx context.Context) (*Analysis, error) {
	runID := core.NewRunID()

	dataset, err := s.source.Load()
	if err != nil {
		return nil, errors.AtStage(errors.StageLoad, err)
	}
	hash := dataset.Fingerprint()
	s.logger.Info("run %s: loaded %d records (dataset %s)", runID.Short(), dataset.Len(), hash.Short())
	if err := ctx.Err(); err != nil {
		return nil, errors.AtStage(errors.StageFilter, err)
	}

	filtered := player.FilterBy(dataset, s.criteria)
	s.logger.Info("run %s: %d records pass level > %g and apm > %g",
		runID.Short(), filtered.Len(), s.criteria.MinLevel, s.criteria.MinAPM)
	if filtered.Len() < engine.MinSamples {
		return nil, errors.InsufficientData(filtered.Len(), engine.MinSamples)
	}

	return &Analysis{
		RunID:        runID,
		DatasetHash:  hash,
		TotalRecords: dataset.Len(),
		Filtered:     filtered,
		Columns:      filtered.Columns(),
	}, nil
}

// Pairs computes the three report correlations
func (s *CorrelationService) Pairs(ctx context.Context, a *Analysis) ([]stats.PairResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.AtStage(errors.StageStatistics, err)
	}
	pairs, err := s.engine.CorrelatePairs(a.Columns, stats.ReportPairs)
	if err != nil {
		return nil, errors.DegenerateInput("cannot correlate report pairs", err)
	}
	return pairs, nil
}

// Matrix computes the 3x3 correlation matrix
func (s *CorrelationService) Matrix(ctx context.Context, a *Analysis) (stats.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return stats.Matrix{}, errors.AtStage(errors.StageStatistics, err)
	}
	m, err := s.engine.CorrelationMatrix(a.Columns)
	if err != nil {
		return stats.Matrix{}, errors.DegenerateInput("cannot build correlation matrix", err)
	}
	return m, nil
}

// ScatterReport computes the pair statistics and renders the stacked scatter report to path
func (s *CorrelationService) ScatterReport(ctx context.Context, path string) ([]stats.PairResult, error) {
	a, err := s.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	pairs, err := s.Pairs(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteFile(path, func(w io.Writer) error {
		return s.scatter.RenderScatter(w, a.Columns, pairs)
	}); err != nil {
		return nil, errors.RenderFailed(path, err)
	}
	s.logger.Info("run %s: wrote scatter report %s", a.RunID.Short(), path)
	return pairs, nil
}

// Heatmap computes the correlation matrix and renders it to path
func (s *CorrelationService) Heatmap(ctx context.Context, path string) (stats.Matrix, error) {
	a, err := s.Prepare(ctx)
	if err != nil {
		return stats.Matrix{}, err
	}
	m, err := s.Matrix(ctx, a)
	if err != nil {
		return stats.Matrix{}, err
	}
	if err := fileutil.WriteFile(path, func(w io.Writer) error {
		return s.heatmap.RenderHeatmap(w, m)
	}); err != nil {
		return stats.Matrix{}, errors.RenderFailed(path, err)
	}
	s.logger.Info("run %s: wrote heatmap %s", a.RunID.Short(), path)
	return m, nil
}

// Summary computes every statistic without rendering
func (s *CorrelationService) Summary(ctx context.Context) (*stats.Summary, error) {
	a, err := s.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, a)
}

func (s *CorrelationService) summarize(ctx context.Context, a *Analysis) (*stats.Summary, error) {
	pairs, err := s.Pairs(ctx, a)
	if err != nil {
		return nil, err
	}
	m, err := s.Matrix(ctx, a)
	if err != nil {
		return nil, err
	}
	columns, err := s.engine.SummarizeColumns(a.Columns)
	if err != nil {
		return nil, errors.AtStage(errors.StageStatistics, err)
	}
	return &stats.Summary{
		RunID:        a.RunID,
		GeneratedAt:  core.Now(),
		DatasetHash:  a.DatasetHash,
		TotalRecords: a.TotalRecords,
		Filtered:     a.Filtered,
		Columns:      columns,
		Pairs:        pairs,
		Matrix:       m,
		Criteria:     s.criteria,
	}, nil
}

// Export writes a summary through an exporter, reporting failures at the export stage
func (s *CorrelationService) Export(exporter ports.SummaryExporter, path string, summary *stats.Summary) error {
	if err := exporter.Export(path, summary); err != nil {
		return errors.ExportFailed(path, err)
	}
	s.logger.Info("run %s: exported summary to %s", summary.RunID.Short(), path)
	return nil
}

// Artifacts lists the outputs of RenderAll
type Artifacts struct {
	Pairs  []stats.PairResult
	Matrix stats.Matrix
}

// RenderAll loads the data once and writes both images. The heatmap is only
// attempted after the scatter report has been written.
func (s *CorrelationService) RenderAll(ctx context.Context, scatterPath, heatmapPath string) (*Artifacts, error) {
	a, err := s.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	pairs, err := s.Pairs(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteFile(scatterPath, func(w io.Writer) error {
		return s.scatter.RenderScatter(w, a.Columns, pairs)
	}); err != nil {
		return nil, errors.RenderFailed(scatterPath, err)
	}
	m, err := s.Matrix(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteFile(heatmapPath, func(w io.Writer) error {
		return s.heatmap.RenderHeatmap(w, m)
	}); err != nil {
		return nil, errors.RenderFailed(heatmapPath, err)
	}
	s.logger.Info("run %s: wrote %s and %s", a.RunID.Short(), scatterPath, heatmapPath)
	return &Artifacts{Pairs: pairs, Matrix: m}, nil
}
