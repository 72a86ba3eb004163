// Package raster draws 2D primitives onto an RGBA framebuffer.
//
// It covers what the carousel needs from a canvas: clearing, blitting bitmaps
// with a global alpha, filling polygons, stroking arcs and writing short text
// lines. Coordinates are in pixels with the origin at the top-left corner and
// angles are in radians, growing clockwise on screen.
package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

type Point struct {
	X, Y float64
}

// Canvas is a drawing target backed by an *image.RGBA.
type Canvas struct {
	dst *image.RGBA
	ras *vector.Rasterizer
}

// New returns a canvas drawing into dst.
func New(dst *image.RGBA) *Canvas {
	b := dst.Bounds()
	return &Canvas{dst: dst, ras: vector.NewRasterizer(b.Dx(), b.Dy())}
}

func (c *Canvas) Width() int         { return c.dst.Bounds().Dx() }
func (c *Canvas) Height() int        { return c.dst.Bounds().Dy() }
func (c *Canvas) Image() *image.RGBA { return c.dst }

// Clear resets every pixel to transparent black.
func (c *Canvas) Clear() {
	clear(c.dst.Pix)
}

// DrawImage composites src with its top-left corner at (x, y), scaled by a
// global alpha in [0, 1]. x and y are rounded to whole pixels.
func (c *Canvas) DrawImage(src image.Image, x, y, alpha float64) {
	a := clampUnit(alpha)
	if a == 0 || src == nil {
		return
	}

	sb := src.Bounds()
	dp := image.Pt(int(math.Round(x)), int(math.Round(y)))
	r := image.Rectangle{Min: dp, Max: dp.Add(sb.Size())}.Intersect(c.dst.Bounds())
	if r.Empty() {
		return
	}
	sp := sb.Min.Add(r.Min.Sub(dp))

	if a >= 1 {
		draw.Draw(c.dst, r, src, sp, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(a * 0xFF))})
	draw.DrawMask(c.dst, r, src, sp, mask, image.Point{}, draw.Over)
}

// FillPolygon fills the closed polygon through pts.
func (c *Canvas) FillPolygon(pts []Point, col color.RGBA, alpha float64) {
	if len(pts) < 3 {
		return
	}
	c.beginPath()
	c.ras.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		c.ras.LineTo(float32(p.X), float32(p.Y))
	}
	c.ras.ClosePath()
	c.fill(col, alpha)
}

// StrokeArc strokes a circular arc of the given line width with butt caps.
//
// The arc runs from start to end; clockwise unless anticlockwise is set. A
// sweep of a full turn or more draws the whole circle.
func (c *Canvas) StrokeArc(cx, cy, radius, start, end float64, anticlockwise bool, width float64, col color.RGBA) {
	from, sweep := arcSweep(start, end, anticlockwise)
	if sweep == 0 || radius <= 0 || width <= 0 {
		return
	}
	outer := radius + width/2
	inner := max(radius-width/2, 0)

	n := int(math.Ceil(math.Abs(sweep) * outer / 4))
	n = max(n, 8)

	c.beginPath()
	for i := 0; i <= n; i++ {
		a := from + sweep*float64(i)/float64(n)
		x, y := float32(cx+outer*math.Cos(a)), float32(cy+outer*math.Sin(a))
		if i == 0 {
			c.ras.MoveTo(x, y)
			continue
		}
		c.ras.LineTo(x, y)
	}
	for i := n; i >= 0; i-- {
		a := from + sweep*float64(i)/float64(n)
		c.ras.LineTo(float32(cx+inner*math.Cos(a)), float32(cy+inner*math.Sin(a)))
	}
	c.ras.ClosePath()
	c.fill(col, 1)
}

func (c *Canvas) beginPath() {
	c.ras.Reset(c.Width(), c.Height())
	c.ras.DrawOp = draw.Over
}

func (c *Canvas) fill(col color.RGBA, alpha float64) {
	a := clampUnit(alpha) * float64(col.A) / 0xFF
	if a == 0 {
		return
	}
	src := image.NewUniform(color.NRGBA{R: col.R, G: col.G, B: col.B, A: uint8(math.Round(a * 0xFF))})
	c.ras.Draw(c.dst, c.dst.Bounds(), src, image.Point{})
}

// arcSweep normalizes an arc to a start angle and a signed sweep in
// [-2π, 2π]. Positive sweeps are clockwise.
func arcSweep(start, end float64, anticlockwise bool) (from, sweep float64) {
	const turn = 2 * math.Pi
	d := end - start
	if anticlockwise {
		d = -d
	}
	switch {
	case d >= turn:
		d = turn
	case d != 0:
		d = math.Mod(d, turn)
		if d < 0 {
			d += turn
		}
	}
	if anticlockwise {
		d = -d
	}
	return start, d
}

func clampUnit(v float64) float64 {
	switch {
	case !(v > 0):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
