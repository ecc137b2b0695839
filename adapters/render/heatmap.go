package render

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"playercorr/domain/stats"
	"playercorr/internal"
	"playercorr/internal/report"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Color limits of the heatmap scale; coefficients outside are clamped.
const (
	heatMin = -1.0
	heatMax = 1.0
)

// HeatmapRenderer draws a correlation matrix as a coloured grid with a colour bar
type HeatmapRenderer struct {
	CellSize int
	logger   *internal.Logger
}

// NewHeatmapRenderer creates a renderer with square cells of cellSize pixels
func NewHeatmapRenderer(cellSize int, logger *internal.Logger) *HeatmapRenderer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cellSize <= 0 {
		cellSize = 120
	}
	return &HeatmapRenderer{CellSize: cellSize, logger: logger.WithComponent("render")}
}

// heatmapLayout holds the pixel geometry of one heatmap image
type heatmapLayout struct {
	n          int
	cell       int
	gridLeft   int
	gridTop    int
	barLeft    int
	barWidth   int
	width      int
	height     int
	labelWidth int
}

func (r *HeatmapRenderer) layout(labels []string) heatmapLayout {
	labelWidth := 0
	for _, l := range labels {
		if w, _ := measureText(l, 1); w > labelWidth {
			labelWidth = w
		}
	}
	n := len(labels)
	l := heatmapLayout{
		n:          n,
		cell:       r.CellSize,
		labelWidth: labelWidth,
		gridLeft:   labelWidth + 20,
		gridTop:    20,
		barWidth:   r.CellSize / 5,
	}
	l.barLeft = l.gridLeft + n*l.cell + 24
	l.width = l.barLeft + l.barWidth + 60
	l.height = l.gridTop + n*l.cell + 40
	return l
}

// RenderHeatmap writes the matrix image as PNG
func (r *HeatmapRenderer) RenderHeatmap(w io.Writer, m stats.Matrix) error {
	if m.Values == nil || m.Size() == 0 {
		return fmt.Errorf("empty correlation matrix")
	}
	if len(m.Labels) != m.Size() {
		return fmt.Errorf("matrix has %d labels for %d variables", len(m.Labels), m.Size())
	}

	l := r.layout(m.Labels)
	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	fill(img, img.Bounds(), white)

	_, th := measureText("0", 1)
	for i := 0; i < l.n; i++ {
		for j := 0; j < l.n; j++ {
			v := m.At(i, j)
			cell := image.Rect(
				l.gridLeft+j*l.cell, l.gridTop+i*l.cell,
				l.gridLeft+(j+1)*l.cell, l.gridTop+(i+1)*l.cell,
			)
			fill(img, cell, heatColor(v))
			drawText(img, report.FormatCell(v), cell.Min.X+l.cell/2, cell.Min.Y+(l.cell-th)/2,
				textStyle{Color: black, Center: true})
		}
	}

	r.drawAxisLabels(img, l, m.Labels)
	r.drawColorBar(img, l)
	r.logger.Debug("rendered %dx%d heatmap", l.n, l.n)
	return png.Encode(w, img)
}

func (r *HeatmapRenderer) drawAxisLabels(img *image.RGBA, l heatmapLayout, labels []string) {
	_, th := measureText("X", 1)
	for i, label := range labels {
		// rows, right-aligned against the grid
		lw, _ := measureText(label, 1)
		drawText(img, label, l.gridLeft-8-lw, l.gridTop+i*l.cell+(l.cell-th)/2, textStyle{Color: black})
		// columns, centred below the grid
		drawText(img, label, l.gridLeft+i*l.cell+l.cell/2, l.gridTop+l.n*l.cell+8, textStyle{Color: black, Center: true})
	}
}

// drawColorBar paints the vertical scale from heatMax (top) to heatMin (bottom)
func (r *HeatmapRenderer) drawColorBar(img *image.RGBA, l heatmapLayout) {
	top := l.gridTop
	bottom := l.gridTop + l.n*l.cell
	span := bottom - top
	for y := top; y < bottom; y++ {
		v := heatMax - (heatMax-heatMin)*float64(y-top)/float64(span-1)
		fill(img, image.Rect(l.barLeft, y, l.barLeft+l.barWidth, y+1), heatColor(v))
	}
	_, th := measureText("X", 1)
	ticks := []float64{1, 0.5, 0, -0.5, -1}
	for _, t := range ticks {
		y := top + int(float64(span-1)*(heatMax-t)/(heatMax-heatMin))
		fill(img, image.Rect(l.barLeft+l.barWidth, y, l.barLeft+l.barWidth+4, y+1), black)
		drawText(img, fmt.Sprintf("% .2f", t), l.barLeft+l.barWidth+6, y-th/2, textStyle{Color: black})
	}
}

// heatColor maps a coefficient onto the viridis scale
func heatColor(v float64) drawing.Color {
	if v < heatMin {
		v = heatMin
	}
	if v > heatMax {
		v = heatMax
	}
	return chart.Viridis(v, heatMin, heatMax)
}
