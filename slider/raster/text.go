package raster

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

// Font is the face used for captions and diagnostic screens.
var Font tinyfont.Fonter = &freemono.Regular9pt7b

// LineHeight is the baseline-to-baseline distance for Font.
const LineHeight = 18

var _ drivers.Displayer = textTarget{}

// textTarget adapts an RGBA image to the tinyfont pixel sink.
type textTarget struct {
	dst *image.RGBA
}

func (t textTarget) Size() (x, y int16) {
	b := t.dst.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (t textTarget) SetPixel(x, y int16, c color.RGBA) {
	p := image.Pt(int(x), int(y))
	if !p.In(t.dst.Bounds()) {
		return
	}
	t.dst.SetRGBA(p.X, p.Y, c)
}

func (t textTarget) Display() error { return nil }

// Text writes s with its baseline at y, starting at x.
func (c *Canvas) Text(x, y int, s string, col color.RGBA) {
	tinyfont.WriteLine(textTarget{dst: c.dst}, Font, int16(x), int16(y), s, col)
}

// TextWidth returns the advance width of s in pixels.
func TextWidth(s string) int {
	_, outbox := tinyfont.LineWidth(Font, s)
	return int(outbox)
}
