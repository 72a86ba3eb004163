// Package carousel drives an image carousel on a hal framebuffer.
//
// A Carousel owns the slide collection, the loading spinner and a frame loop
// registered with a kernel. Everything runs on the goroutine that calls
// Poll, the input handlers and kernel.Frame; only image fetches happen
// elsewhere. Frames draw into the framebuffer; presenting it is left to
// whoever runs kernel.Frame.
//
// Construction never fails outright. An invalid configuration produces an
// inert carousel whose operations do nothing; Err reports why.
package carousel

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"carousel/hal"
	"carousel/kernel"
	"carousel/slider/config"
	"carousel/slider/input"
	"carousel/slider/raster"
	"carousel/slider/slides"
	"carousel/slider/spinner"
)

var ErrNoKernel = errors.New("carousel: no kernel")

const (
	alphaCurrent = 1.0
	alphaOther   = 0.6
	alphaHover   = 0.9
	alphaIdle    = 0.5
)

var (
	arrowColor   = color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}
	captionColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

type options struct {
	fetcher slides.Fetcher
	logger  hal.Logger
}

// Option customizes a Carousel.
type Option func(*options)

// WithFetcher replaces the default http/file fetcher.
func WithFetcher(f slides.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithLogger sets where load failures are reported.
func WithLogger(l hal.Logger) Option {
	return func(o *options) { o.logger = l }
}

type Carousel struct {
	cfg config.Config
	err error
	log hal.Logger
	ctx context.Context

	canvas *raster.Canvas
	geom   input.Geometry
	input  *input.Handler

	slides *slides.Collection
	spin   *spinner.Spinner
	draw   *kernel.Loop

	current   int
	offset    float64
	offsetSet bool
	direction int
	hover     input.Zone
	started   bool
}

// New builds a carousel drawing on disp and scheduling frames on k.
// Nothing is loaded until Start.
func New(cfg config.Config, disp hal.Display, k *kernel.Kernel, opts ...Option) *Carousel {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	c := &Carousel{cfg: cfg, log: o.logger, ctx: context.Background()}
	if c.log == nil {
		c.log = nopLogger{}
	}

	switch {
	case disp == nil || disp.Framebuffer() == nil:
		c.err = config.ErrNoDisplay
	case k == nil:
		c.err = ErrNoKernel
	default:
		c.err = cfg.Validate()
	}
	if c.err != nil {
		return c
	}

	c.canvas = raster.New(disp.Framebuffer().Image())
	c.geom = input.ArrowGeometry(c.canvas.Width())
	c.input = input.NewHandler(c, c.geom)

	loader := slides.NewLoader(c.canvas.Height(), cfg.Fetch.Workers, cfg.Fetch.Timeout, o.fetcher)
	c.slides = slides.New(loader)
	c.current = cfg.Current
	c.clamp()
	c.slides.OnFailure(func(src string, err error) {
		c.log.WriteLineString(fmt.Sprintf("carousel: dropped %s: %v", src, err))
	})

	spin, err := spinner.New(cfg.Spinner, c.canvas, k)
	if err != nil {
		c.err = fmt.Errorf("carousel: spinner: %w", err)
		return c
	}
	c.spin = spin

	draw, err := kernel.NewLoop(k, c.frame)
	if err != nil {
		c.err = fmt.Errorf("carousel: draw loop: %w", err)
		return c
	}
	c.draw = draw
	return c
}

// Err returns the reason the carousel is inert, or nil.
func (c *Carousel) Err() error { return c.err }

// Inert reports whether construction failed.
func (c *Carousel) Inert() bool { return c.err != nil }

// Start begins loading the configured images. ctx bounds every fetch.
// Calling Start more than once has no effect.
func (c *Carousel) Start(ctx context.Context) {
	if c.Inert() || c.started {
		return
	}
	c.started = true
	if ctx != nil {
		c.ctx = ctx
	}
	c.LoadImages(nil)
}

// Close cancels outstanding loads and stops both animations.
func (c *Carousel) Close() {
	if c.Inert() {
		return
	}
	c.slides.Close()
	c.spin.Stop()
	c.draw.Stop()
}

// LoadImages replaces every slide with the given images, or reloads the
// current list when urls is empty. The spinner runs until the batch settles.
func (c *Carousel) LoadImages(urls []string) {
	if c.Inert() {
		return
	}
	if len(urls) > 0 {
		c.cfg = c.cfg.WithImages(urls)
	}
	c.draw.Stop()
	c.spin.Start()
	c.slides.Load(c.ctx, c.cfg.Images)
}

// Poll applies finished loads. When the batch settles it positions the
// slides, stops the spinner and starts drawing; it then returns true.
func (c *Carousel) Poll() bool {
	if c.Inert() || !c.slides.Poll() {
		return false
	}
	c.settle()
	return true
}

func (c *Carousel) settle() {
	c.slides.Layout(float64(c.canvas.Width()), c.cfg.WhiteSpace)
	c.clamp()
	c.spin.Stop()
	c.offsetSet = false
	c.stepOffset()
	c.draw.Start()
}

// Next moves to the following slide.
func (c *Carousel) Next() { c.ChangeSlide(1) }

// Prev moves to the preceding slide.
func (c *Carousel) Prev() { c.ChangeSlide(-1) }

// ChangeSlide moves the current index by step, clamped to the slide range,
// and animates toward it. It does nothing while slides are loading.
func (c *Carousel) ChangeSlide(step int) {
	if !c.ready() {
		return
	}
	if step >= 0 {
		c.direction = -1
	} else {
		c.direction = 1
	}
	c.current += step
	c.clamp()
	if !c.atRest() {
		c.draw.Start()
	}
}

// HandlePointer routes a pointer event to the arrow zones.
func (c *Carousel) HandlePointer(ev hal.PointerEvent) {
	if c.Inert() {
		return
	}
	c.input.HandlePointer(ev)
}

// HandleKey routes a key event to navigation.
func (c *Carousel) HandleKey(ev hal.KeyEvent) {
	if c.Inert() {
		return
	}
	c.input.Key(ev)
}

// Hover returns the arrow zone under the pointer.
func (c *Carousel) Hover() input.Zone { return c.hover }

// SetHover sets the hovered arrow zone.
func (c *Carousel) SetHover(z input.Zone) { c.hover = z }

// RequestRedraw schedules one frame once slides are positioned.
func (c *Carousel) RequestRedraw() {
	if c.Inert() || c.slides.Loading() {
		return
	}
	c.draw.Request()
}

// Current returns the index of the current slide.
func (c *Carousel) Current() int { return c.current }

// Offset returns the scroll offset; ok is false until the first batch settles.
func (c *Carousel) Offset() (offset float64, ok bool) { return c.offset, c.offsetSet }

// SlideCount returns the number of loaded slides.
func (c *Carousel) SlideCount() int {
	if c.Inert() {
		return 0
	}
	return c.slides.Len()
}

// Slides returns a copy of the positioned slides.
func (c *Carousel) Slides() []slides.Slide {
	if c.Inert() {
		return nil
	}
	return c.slides.Slides()
}

// Loading reports whether a batch of images is still in flight.
func (c *Carousel) Loading() bool {
	return !c.Inert() && c.slides.Loading()
}

// Animating reports whether the draw loop is running.
func (c *Carousel) Animating() bool {
	return !c.Inert() && c.draw.Running()
}

// Images returns the configured image list.
func (c *Carousel) Images() []string { return c.cfg.Images }

func (c *Carousel) ready() bool {
	return !c.Inert() && !c.slides.Loading() && c.slides.Len() > 0
}

func (c *Carousel) clamp() {
	if n := c.slides.Len(); c.current >= n {
		c.current = n - 1
	}
	if c.current < 0 {
		c.current = 0
	}
}

func (c *Carousel) target() float64 {
	return c.slides.At(c.current).XCurrent
}

func (c *Carousel) atRest() bool {
	return c.offsetSet && c.offset == c.target()
}

// stepOffset moves the offset one frame toward the current slide and reports
// whether it was already there. An unset offset snaps to the target.
func (c *Carousel) stepOffset() (converged bool) {
	if c.slides.Len() == 0 {
		return true
	}
	target := c.target()
	if !c.offsetSet {
		c.offset = target
		c.offsetSet = true
		return false
	}
	if c.offset == target {
		return true
	}

	dir := c.direction
	if dir == 0 || float64(dir)*(target-c.offset) < 0 {
		if target > c.offset {
			dir = 1
		} else {
			dir = -1
		}
		c.direction = dir
	}
	c.offset += float64(dir) * c.cfg.Speed
	if (dir < 0 && c.offset < target) || (dir > 0 && c.offset > target) {
		c.offset = target
	}
	return false
}

func (c *Carousel) frame(*kernel.Context) bool {
	c.render()
	return !c.stepOffset()
}

func (c *Carousel) render() {
	cv := c.canvas
	cv.Clear()

	if n := c.slides.Len(); n > 0 {
		w := float64(cv.Width())
		for i := 0; i < n; i++ {
			s := c.slides.At(i)
			if s.XEnd+c.offset <= 0 || s.XStart+c.offset >= w {
				continue
			}
			alpha := alphaOther
			if i == c.current {
				alpha = alphaCurrent
			}
			cv.DrawImage(s.Image, s.XStart+c.offset, 0, alpha)
		}
		c.drawArrows()
		if c.cfg.Caption {
			c.drawCaption(n)
		}
	}
}

func (c *Carousel) drawArrows() {
	w := c.geom.Width
	h := float64(c.canvas.Height())
	off, aw := c.geom.ArrowOffset, c.geom.ArrowWidth

	left := alphaIdle
	if c.hover < 0 {
		left = alphaHover
	}
	c.canvas.FillPolygon([]raster.Point{
		{X: off + aw, Y: off},
		{X: off + aw, Y: h - off},
		{X: off, Y: h / 2},
	}, arrowColor, left)

	right := alphaIdle
	if c.hover > 0 {
		right = alphaHover
	}
	c.canvas.FillPolygon([]raster.Point{
		{X: w - off - aw, Y: off},
		{X: w - off - aw, Y: h - off},
		{X: w - off, Y: h / 2},
	}, arrowColor, right)
}

func (c *Carousel) drawCaption(n int) {
	s := fmt.Sprintf("%d/%d", c.current+1, n)
	x := (c.canvas.Width() - raster.TextWidth(s)) / 2
	y := c.canvas.Height() - raster.LineHeight/2
	c.canvas.Text(x, y, s, captionColor)
}

type nopLogger struct{}

func (nopLogger) WriteLineString(string) {}
func (nopLogger) WriteLineBytes([]byte)  {}
