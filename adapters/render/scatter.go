package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"playercorr/domain/player"
	"playercorr/domain/stats"
	"playercorr/internal"
	"playercorr/internal/report"

	montana "github.com/montanaflynn/stats"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const titleBandHeight = 48

var (
	panelFill      = drawing.ColorFromHex("eeeeee")
	gridColor      = drawing.ColorFromHex("dddddd")
	regressionLine = drawing.ColorFromHex("a52a2a")
	pointColor     = chart.ColorBlue
)

// ScatterRenderer draws one scatter/regression panel per pair and stacks them
type ScatterRenderer struct {
	PanelWidth  int
	PanelHeight int
	logger      *internal.Logger
}

// NewScatterRenderer creates a renderer with the given panel size in pixels
func NewScatterRenderer(panelWidth, panelHeight int, logger *internal.Logger) *ScatterRenderer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ScatterRenderer{
		PanelWidth:  panelWidth,
		PanelHeight: panelHeight,
		logger:      logger.WithComponent("render"),
	}
}

// RenderScatter writes the stacked report as PNG
func (r *ScatterRenderer) RenderScatter(w io.Writer, cols player.Columns, pairs []stats.PairResult) error {
	if len(pairs) == 0 {
		return fmt.Errorf("no pairs to render")
	}

	height := titleBandHeight + r.PanelHeight*len(pairs)
	canvas := image.NewRGBA(image.Rect(0, 0, r.PanelWidth, height))
	fill(canvas, canvas.Bounds(), white)
	drawText(canvas, report.ReportTitle, r.PanelWidth/2, 12, textStyle{Color: black, Scale: 2, Center: true})

	for position, pr := range pairs {
		panel, err := r.renderPanel(cols.Get(pr.Pair.X), cols.Get(pr.Pair.Y), pr)
		if err != nil {
			return fmt.Errorf("panel %d (%s): %w", position, pr.Pair.Name(), err)
		}
		top := titleBandHeight + position*r.PanelHeight
		dst := image.Rect(0, top, r.PanelWidth, top+r.PanelHeight)
		drawImage(canvas, dst, panel)
		r.annotate(canvas, dst, pr.Result)
		r.logger.Debug("rendered panel %d: %s", position, pr.Pair.Title)
	}

	return png.Encode(w, canvas)
}

// renderPanel draws a single chart through go-chart and decodes it for composition
func (r *ScatterRenderer) renderPanel(x, y []float64, pr stats.PairResult) (image.Image, error) {
	axis := report.AxisPolicy(y)
	px, py := visiblePoints(x, y, axis)
	if len(px) == 0 {
		// nothing falls inside the fixed range; autoscale instead
		axis = report.AxisConfig{Percent: axis.Percent}
		px, py = x, y
	}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Players",
			XValues: px,
			YValues: py,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    1.5,
				DotColor:    pointColor,
			},
		},
	}
	if line, ok := regressionSeries(x, pr.Result, axis); ok {
		series = append(series, line)
	}

	ch := chart.Chart{
		Title:      pr.Pair.Title,
		Width:      r.PanelWidth,
		Height:     r.PanelHeight,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 16, Bottom: 16}},
		Canvas:     chart.Style{FillColor: panelFill},
		XAxis: chart.XAxis{
			Name:           pr.Pair.XLabel,
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
		},
		YAxis: chart.YAxis{
			Name:           pr.Pair.YLabel,
			Range:          yRange(axis),
			ValueFormatter: tickFormatter(axis),
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// regressionSeries spans the observed x range with the fitted line, cut to the
// visible y range when the axis is clipped. ok is false when no part of the
// line is visible.
func regressionSeries(x []float64, res stats.CorrelationResult, axis report.AxisConfig) (chart.ContinuousSeries, bool) {
	lo, _ := montana.Min(x)
	hi, _ := montana.Max(x)
	if axis.Clip {
		var visible bool
		if lo, hi, visible = clipLine(lo, hi, res, axis.Min, axis.Max); !visible {
			return chart.ContinuousSeries{}, false
		}
	}
	return chart.ContinuousSeries{
		Name:    report.RegressionLabel(res.Slope, res.Intercept),
		XValues: []float64{lo, hi},
		YValues: []float64{res.Predict(lo), res.Predict(hi)},
		Style: chart.Style{
			StrokeColor: regressionLine,
			StrokeWidth: 2,
		},
	}, true
}

// clipLine narrows [lo, hi] to the x interval where the line stays within [ymin, ymax]
func clipLine(lo, hi float64, res stats.CorrelationResult, ymin, ymax float64) (float64, float64, bool) {
	if res.Slope == 0 {
		return lo, hi, res.Intercept >= ymin && res.Intercept <= ymax
	}
	a := (ymin - res.Intercept) / res.Slope
	b := (ymax - res.Intercept) / res.Slope
	if a > b {
		a, b = b, a
	}
	lo = math.Max(lo, a)
	hi = math.Min(hi, b)
	return lo, hi, lo <= hi
}

// visiblePoints drops points outside a clipped y range, matching a fixed axis limit
func visiblePoints(x, y []float64, axis report.AxisConfig) ([]float64, []float64) {
	if !axis.Clip {
		return x, y
	}
	px := make([]float64, 0, len(x))
	py := make([]float64, 0, len(y))
	for i := range y {
		if y[i] >= axis.Min && y[i] <= axis.Max {
			px = append(px, x[i])
			py = append(py, y[i])
		}
	}
	return px, py
}

func yRange(axis report.AxisConfig) chart.Range {
	if !axis.Clip {
		return nil
	}
	return &chart.ContinuousRange{Min: axis.Min, Max: axis.Max}
}

func tickFormatter(axis report.AxisConfig) chart.ValueFormatter {
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return axis.FormatTick(f)
		}
		return fmt.Sprintf("%v", v)
	}
}

// annotate overlays the correlation and p-value text in the panel's upper-left area
func (r *ScatterRenderer) annotate(dst *image.RGBA, panel image.Rectangle, res stats.CorrelationResult) {
	x := panel.Min.X + 70 + panel.Dx()/50
	y := panel.Min.Y + 44
	drawText(dst, report.CorrelationLabel(res.Coefficient), x, y, textStyle{Color: textColor, Shadow: shadowColor, Scale: 2})
	_, h := measureText("X", 2)
	drawText(dst, report.PValueLabel(res.PValue), x, y+h+4, textStyle{Color: textColor, Shadow: shadowColor, Scale: 1})
}
