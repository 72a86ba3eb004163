// Package spinner draws the multi-arc loading indicator shown while slides load.
package spinner

import (
	"image/color"
	"math"

	"carousel/kernel"
	"carousel/slider/config"
	"carousel/slider/palette"
	"carousel/slider/raster"
)

// Spinner animates arcCount concentric arcs until stopped.
type Spinner struct {
	cfg    config.Spinner
	canvas *raster.Canvas
	loop   *kernel.Loop

	colors []color.RGBA
	phase  float64
	step   float64
	frames uint64
}

// New registers the spinner's frame loop with k. The spinner starts stopped.
func New(cfg config.Spinner, canvas *raster.Canvas, k *kernel.Kernel) (*Spinner, error) {
	s := &Spinner{
		cfg:    cfg,
		canvas: canvas,
		step:   2 / float64(max(cfg.ArcCount, 1)),
	}
	loop, err := kernel.NewLoop(k, s.frame)
	if err != nil {
		return nil, err
	}
	s.loop = loop
	return s, nil
}

// Start picks fresh colors, resets the phase and runs the loop.
func (s *Spinner) Start() {
	s.colors = palette.Random(s.cfg.ArcCount)
	s.phase = 0
	s.loop.Start()
}

// Stop ends the loop. The next armed frame exits without drawing.
func (s *Spinner) Stop() { s.loop.Stop() }

func (s *Spinner) Running() bool { return s.loop.Running() }

// Phase returns the current phase in half-turns, in [0, 2).
func (s *Spinner) Phase() float64 { return s.phase }

// Frames returns how many frames the spinner has drawn.
func (s *Spinner) Frames() uint64 { return s.frames }

// Colors returns the arc colors of the current run.
func (s *Spinner) Colors() []color.RGBA { return s.colors }

func (s *Spinner) frame(*kernel.Context) bool {
	s.Draw()
	s.frames++
	s.phase = math.Mod(s.phase+s.cfg.Speed, 2)
	return true
}

// Draw renders one frame at the current phase.
func (s *Spinner) Draw() {
	c := s.canvas
	c.Clear()

	cx := float64(c.Width()) / 2
	cy := float64(c.Height()) / 2
	lw := s.cfg.LineWidth

	odd := 1.0
	for i := 0; i < s.cfg.ArcCount; i++ {
		odd = -odd
		base := s.phase + s.step*float64(i)
		start := odd * base * math.Pi
		end := odd * (base + s.cfg.Segment) * math.Pi
		c.StrokeArc(cx, cy, float64(i+1)*lw, start, end, odd < 0, lw, s.color(i))
	}
}

func (s *Spinner) color(i int) color.RGBA {
	if i < len(s.colors) {
		return s.colors[i]
	}
	return color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
}
