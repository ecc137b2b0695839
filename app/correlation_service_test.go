package app

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"playercorr/adapters/excel"
	"playercorr/adapters/loader"
	"playercorr/adapters/markdown"
	"playercorr/adapters/render"
	"playercorr/adapters/stats/engine"
	"playercorr/domain/core"
	"playercorr/domain/player"
	"playercorr/domain/stats"
	"playercorr/internal"
	"playercorr/internal/errors"
	"playercorr/internal/testkit"
	"playercorr/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = internal.NewLogger(internal.LogLevelError)

// failingRenderer writes a few bytes and then fails
type failingRenderer struct{}

func (failingRenderer) RenderScatter(w io.Writer, _ player.Columns, _ []stats.PairResult) error {
	_, _ = w.Write([]byte("partial"))
	return fmt.Errorf("out of ink")
}

func (failingRenderer) RenderHeatmap(w io.Writer, _ stats.Matrix) error {
	_, _ = w.Write([]byte("partial"))
	return fmt.Errorf("out of ink")
}

func newService(source ports.DatasetSource) *CorrelationService {
	return NewCorrelationService(
		source,
		engine.NewStatsEngine(quietLogger),
		render.NewScatterRenderer(500, 200, quietLogger),
		render.NewHeatmapRenderer(60, quietLogger),
		player.DefaultCriteria,
		quietLogger,
	)
}

func referenceExample() player.Dataset {
	return player.Dataset{
		{Kills: 0.1, Level: 95, APM: 50},
		{Kills: 0.2, Level: 92, APM: 60},
		{Kills: 0.05, Level: 80, APM: 10},
		{Kills: 0.3, Level: 99, APM: 0},
	}
}

func TestPrepare_ReferenceExample(t *testing.T) {
	svc := newService(testkit.StaticSource{Dataset: referenceExample()})

	a, err := svc.Prepare(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, a.TotalRecords)
	assert.Equal(t, referenceExample()[:2], a.Filtered)
	assert.False(t, a.RunID == "")
}

func TestScatterReport_ReferenceExample(t *testing.T) {
	svc := newService(testkit.StaticSource{Dataset: referenceExample()})
	path := filepath.Join(t.TempDir(), "corr.png")

	pairs, err := svc.ScatterReport(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	killsAPM := pairs[0]
	assert.Equal(t, player.VarAPM, killsAPM.Pair.X)
	assert.Equal(t, 1.0, killsAPM.Result.Coefficient)
	assert.Equal(t, 1.0, killsAPM.Result.PValue)
	// the regression line passes through both points
	assert.InDelta(t, 0.1, killsAPM.Result.Predict(50), 1e-9)
	assert.InDelta(t, 0.2, killsAPM.Result.Predict(60), 1e-9)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 500, img.Bounds().Dx())
}

func TestHeatmap_WritesMatrix(t *testing.T) {
	d := testkit.NewPlayerGenerator(21).Generate(300)
	svc := newService(testkit.StaticSource{Dataset: d})
	path := filepath.Join(t.TempDir(), "heatmap.png")

	m, err := svc.Heatmap(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Size())
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, m.At(i, i))
	}
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRenderAll_WritesBothArtifacts(t *testing.T) {
	raw, err := testkit.EncodeJSON(testkit.NewPlayerGenerator(4).Generate(200))
	require.NoError(t, err)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, raw, 0o644))

	svc := newService(loader.NewJSONLoader(dataPath))
	scatterPath := filepath.Join(dir, "corr.png")
	heatmapPath := filepath.Join(dir, "heatmap.png")

	out, err := svc.RenderAll(context.Background(), scatterPath, heatmapPath)
	require.NoError(t, err)
	assert.Len(t, out.Pairs, 3)
	assert.Equal(t, 3, out.Matrix.Size())
	for _, p := range []string{scatterPath, heatmapPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestSummary_MatchesEngine(t *testing.T) {
	d := testkit.NewPlayerGenerator(8).Generate(250)
	svc := newService(testkit.StaticSource{Dataset: d})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250, summary.TotalRecords)
	assert.Equal(t, player.Filter(d), summary.Filtered)
	assert.Len(t, summary.Columns, 3)
	assert.Equal(t, player.DefaultCriteria, summary.Criteria)
	assert.Equal(t, d.Fingerprint(), summary.DatasetHash)
	assert.False(t, summary.GeneratedAt.IsZero())

	cols := player.Filter(d).Columns()
	direct, err := engine.NewStatsEngine(quietLogger).Correlate(cols.Level, cols.APM)
	require.NoError(t, err)
	assert.Equal(t, direct, summary.Pairs[2].Result)
	assert.Equal(t, direct.Coefficient, summary.Matrix.At(0, 1))
}

func TestExport_WritesFiles(t *testing.T) {
	svc := newService(testkit.StaticSource{Dataset: testkit.NewPlayerGenerator(2).Generate(100)})
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, svc.Export(excel.NewWorkbookExporter(), filepath.Join(dir, "s.xlsx"), summary))
	require.NoError(t, svc.Export(markdown.NewHTMLExporter(), filepath.Join(dir, "s.html"), summary))

	err = svc.Export(markdown.NewHTMLExporter(), filepath.Join(dir, "missing", "s.html"), summary)
	require.Error(t, err)
	assert.Equal(t, errors.CodeExportFailed, errors.GetCode(err))
	assert.Equal(t, errors.StageExport, errors.GetStage(err))
}

func TestInsufficientData(t *testing.T) {
	cases := map[string]player.Dataset{
		"none survive": {{Kills: 0.1, Level: 50, APM: 10}, {Kills: 0.3, Level: 99, APM: 0}},
		"one survives": {{Kills: 0.1, Level: 95, APM: 10}, {Kills: 0.3, Level: 99, APM: 0}},
		"empty input":  {},
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newService(testkit.StaticSource{Dataset: d})
			path := filepath.Join(t.TempDir(), "corr.png")

			_, err := svc.ScatterReport(context.Background(), path)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInsufficientData)
			assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))
			assert.Equal(t, errors.StageFilter, errors.GetStage(err))
			assert.NoFileExists(t, path)
		})
	}
}

func TestDegenerateInput(t *testing.T) {
	// every surviving player has the same kill share
	d := player.Dataset{
		{Kills: 0.2, Level: 95, APM: 50},
		{Kills: 0.2, Level: 120, APM: 70},
		{Kills: 0.2, Level: 300, APM: 90},
	}
	svc := newService(testkit.StaticSource{Dataset: d})
	dir := t.TempDir()

	_, err := svc.ScatterReport(context.Background(), filepath.Join(dir, "corr.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDegenerateInput)
	assert.Equal(t, errors.StageStatistics, errors.GetStage(err))

	_, err = svc.Heatmap(context.Background(), filepath.Join(dir, "heatmap.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDegenerateInput)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadFailure(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(`[[0.1, 95]]`), 0o644))
	svc := newService(loader.NewJSONLoader(dataPath))

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDataFormat)
	assert.Equal(t, errors.CodeDataFormat, errors.GetCode(err))
	assert.Equal(t, errors.StageLoad, errors.GetStage(err))
}

func TestSourceErrorGetsLoadStage(t *testing.T) {
	svc := newService(testkit.StaticSource{Err: fmt.Errorf("disk gone")})
	_, err := svc.Prepare(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.StageLoad, errors.GetStage(err))
}

func TestRenderFailureLeavesNoArtifact(t *testing.T) {
	svc := NewCorrelationService(
		testkit.StaticSource{Dataset: testkit.NewPlayerGenerator(3).Generate(100)},
		engine.NewStatsEngine(quietLogger),
		failingRenderer{},
		failingRenderer{},
		player.DefaultCriteria,
		quietLogger,
	)
	dir := t.TempDir()

	_, err := svc.ScatterReport(context.Background(), filepath.Join(dir, "corr.png"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeRenderFailed, errors.GetCode(err))

	_, err = svc.RenderAll(context.Background(), filepath.Join(dir, "corr.png"), filepath.Join(dir, "heatmap.png"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newService(testkit.StaticSource{Dataset: referenceExample()})

	_, err := svc.Summary(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, errors.CodeCancelled, errors.GetCode(err))
	assert.Equal(t, errors.StageFilter, errors.GetStage(err))
}

// cancelAfterLoad cancels the run once the dataset has been read
type cancelAfterLoad struct {
	testkit.StaticSource
	cancel context.CancelFunc
}

func (s cancelAfterLoad) Load() (player.Dataset, error) {
	defer s.cancel()
	return s.StaticSource.Load()
}

func TestCancelledBetweenStagesReportsStage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := newService(testkit.StaticSource{Dataset: referenceExample()})

	a, err := svc.Prepare(ctx)
	require.NoError(t, err)
	cancel()

	_, err = svc.Pairs(ctx, a)
	require.Error(t, err)
	assert.Equal(t, errors.StageStatistics, errors.GetStage(err))
	assert.Equal(t, errors.CodeCancelled, errors.GetCode(err))

	_, err = svc.Matrix(ctx, a)
	assert.Equal(t, errors.StageStatistics, errors.GetStage(err))

	ctx2, cancel2 := context.WithCancel(context.Background())
	svc = newService(cancelAfterLoad{StaticSource: testkit.StaticSource{Dataset: referenceExample()}, cancel: cancel2})
	dir := t.TempDir()
	_, err = svc.ScatterReport(ctx2, filepath.Join(dir, "corr.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, errors.StageFilter, errors.GetStage(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
