package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	textColor   = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	shadowColor = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	black       = color.RGBA{A: 0xff}
	white       = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// textStyle controls how drawText lays out a string
type textStyle struct {
	Color  color.Color
	Shadow color.Color // nil disables the shadow
	Scale  int         // integer magnification of the 7x13 face
	Center bool        // x is the horizontal centre instead of the left edge
}

// measureText returns the pixel size of text at the given scale
func measureText(text string, scale int) (int, int) {
	if scale < 1 {
		scale = 1
	}
	face := basicfont.Face7x13
	dr := &font.Drawer{Face: face}
	w := dr.MeasureString(text).Ceil()
	h := face.Metrics().Height.Ceil()
	return w * scale, h * scale
}

// drawText draws text with its top edge at y. Larger scales are rasterised at 1x and
// upscaled so the bitmap face stays legible.
func drawText(dst draw.Image, text string, x, y int, st textStyle) {
	if text == "" {
		return
	}
	// The bitmap face only covers ASCII.
	text = strings.ReplaceAll(text, "–", "-")
	scale := st.Scale
	if scale < 1 {
		scale = 1
	}
	w, h := measureText(text, 1)
	if st.Center {
		x -= w * scale / 2
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, w+1, h+1))
	face := basicfont.Face7x13
	baseline := face.Metrics().Ascent.Ceil()
	if st.Shadow != nil {
		dr := &font.Drawer{Dst: glyphs, Src: image.NewUniform(st.Shadow), Face: face,
			Dot: fixed.Point26_6{X: fixed.I(1), Y: fixed.I(baseline + 1)}}
		dr.DrawString(text)
	}
	col := st.Color
	if col == nil {
		col = textColor
	}
	dr := &font.Drawer{Dst: glyphs, Src: image.NewUniform(col), Face: face,
		Dot: fixed.Point26_6{X: fixed.I(0), Y: fixed.I(baseline)}}
	dr.DrawString(text)

	target := image.Rect(x, y, x+(w+1)*scale, y+(h+1)*scale)
	if scale == 1 {
		draw.Draw(dst, target, glyphs, image.Point{}, draw.Over)
		return
	}
	xdraw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}

// fill paints a solid rectangle
func fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawImage copies src into r of dst
func drawImage(dst draw.Image, r image.Rectangle, src image.Image) {
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Src)
}
