// Package slides keeps the ordered slide list and its image-loading
// bookkeeping.
//
// Loads run on worker goroutines and report back as LoadEvent values. All
// state changes happen in Dispatch, which the owner calls from its frame
// goroutine; events from a replaced batch are recognized by their generation
// and dropped.
package slides

import (
	"context"
	"image"
	"slices"
)

// State is the load state of a slide.
type State uint8

const (
	StatePending State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Slide is one carousel entry.
type Slide struct {
	Source string
	// Image is the bitmap scaled to Height; nil until loaded.
	Image  *image.RGBA
	State  State
	Height int

	XStart   float64
	XEnd     float64
	XCurrent float64
}

// Width returns the scaled image width, or 0 when not loaded.
func (s *Slide) Width() float64 {
	if s.Image == nil {
		return 0
	}
	return float64(s.Image.Bounds().Dx())
}

// LoadEvent reports the outcome of one fetch.
type LoadEvent struct {
	Index      int
	Generation uint64
	Image      *image.RGBA
	Err        error
}

// Collection is an ordered slide list plus load bookkeeping.
//
// Collection is not safe for concurrent use. Only the loader goroutines it
// starts touch the events channel concurrently.
type Collection struct {
	slides  []Slide
	pending int
	gen     uint64

	// done is set when a batch completed inside Load and Poll has not
	// reported it yet.
	done    bool
	settled bool

	loader *Loader
	events chan LoadEvent
	cancel context.CancelFunc

	onFailure func(src string, err error)
}

// New returns an empty collection that loads through l.
func New(l *Loader) *Collection {
	return &Collection{
		loader:  l,
		events:  make(chan LoadEvent, eventBuffer),
		settled: true,
	}
}

const eventBuffer = 64

// OnFailure sets a callback invoked from Dispatch for every failed load.
func (c *Collection) OnFailure(fn func(src string, err error)) {
	c.onFailure = fn
}

// Load replaces all slides with pending ones for urls and starts fetching.
// Any batch still in flight is cancelled and its events are ignored.
func (c *Collection) Load(ctx context.Context, urls []string) {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	c.gen++
	c.slides = make([]Slide, len(urls))
	for i, u := range urls {
		c.slides[i] = Slide{Source: u, State: StatePending, Height: c.loader.Height()}
	}
	c.pending = len(urls)
	c.settled = false
	c.done = false

	if c.pending == 0 {
		c.complete()
		c.done = true
		return
	}

	bctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loader.Start(bctx, c.gen, slices.Clone(urls), c.events)
}

// Events exposes the channel load results arrive on.
func (c *Collection) Events() <-chan LoadEvent { return c.events }

// Dispatch applies one load event. It reports whether the event finished the
// current batch; that happens exactly once per batch.
func (c *Collection) Dispatch(ev LoadEvent) bool {
	if ev.Generation != c.gen || c.settled {
		return false
	}
	if ev.Index < 0 || ev.Index >= len(c.slides) {
		return false
	}
	s := &c.slides[ev.Index]
	if s.State != StatePending {
		return false
	}

	if ev.Err != nil || ev.Image == nil {
		s.State = StateFailed
		s.Image = nil
		if c.onFailure != nil {
			err := ev.Err
			if err == nil {
				err = errEmptyImage
			}
			c.onFailure(s.Source, err)
		}
	} else {
		s.State = StateLoaded
		s.Image = ev.Image
	}
	c.pending--

	if c.pending > 0 {
		return false
	}
	c.complete()
	return true
}

// Poll dispatches every event already queued without blocking and reports
// whether the current batch completed.
func (c *Collection) Poll() bool {
	completed := c.done
	c.done = false
	for {
		select {
		case ev := <-c.events:
			if c.Dispatch(ev) {
				completed = true
			}
		default:
			return completed
		}
	}
}

// complete prunes failed slides, keeping the order of the rest.
func (c *Collection) complete() {
	c.slides = slices.DeleteFunc(c.slides, func(s Slide) bool {
		return s.State != StateLoaded
	})
	c.settled = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Layout positions slides left to right with whitespace between them, and
// sets each slide's rest offset so that it is centered in canvasWidth.
func (c *Collection) Layout(canvasWidth, whitespace float64) {
	center := canvasWidth / 2
	for i := range c.slides {
		s := &c.slides[i]
		if i == 0 {
			s.XStart = 0
		} else {
			s.XStart = c.slides[i-1].XEnd + whitespace
		}
		w := s.Width()
		s.XEnd = s.XStart + w
		s.XCurrent = center - w/2 - s.XStart
	}
}

// Close cancels any batch in flight.
func (c *Collection) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Collection) Len() int { return len(c.slides) }

// At returns the slide at i. It panics if i is out of range.
func (c *Collection) At(i int) *Slide { return &c.slides[i] }

// Slides returns a copy of the slide list.
func (c *Collection) Slides() []Slide { return slices.Clone(c.slides) }

// Pending returns the number of outstanding loads in the current batch.
func (c *Collection) Pending() int { return c.pending }

// Loading reports whether the current batch is still in flight.
func (c *Collection) Loading() bool { return !c.settled }

// Generation returns the current batch generation.
func (c *Collection) Generation() uint64 { return c.gen }
