package carousel

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"carousel/hal"
	"carousel/kernel"
	"carousel/slider/config"
	"carousel/slider/input"
	"carousel/slider/slides"
)

var slideColor = color.RGBA{R: 0x10, G: 0x60, B: 0xA0, A: 0xFF}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = slideColor.R
		img.Pix[i+1] = slideColor.G
		img.Pix[i+2] = slideColor.B
		img.Pix[i+3] = slideColor.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func near(got, want color.RGBA) bool {
	d := func(a, b uint8) bool { return a-b <= 2 || b-a <= 2 }
	return d(got.R, want.R) && d(got.G, want.G) && d(got.B, want.B) && got.A == want.A
}

func memFetcher(files map[string][]byte) slides.Fetcher {
	return slides.FetcherFunc(func(ctx context.Context, src string) (io.ReadCloser, error) {
		b, ok := files[src]
		if !ok {
			return nil, errors.New("not found")
		}
		return io.NopCloser(bytes.NewReader(b)), nil
	})
}

type lineLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLog) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *lineLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

type harness struct {
	c    *Carousel
	k    *kernel.Kernel
	fb   hal.Framebuffer
	logs *lineLog
}

func newHarness(t *testing.T, images []string, files map[string][]byte) *harness {
	t.Helper()
	cfg := config.Defaults().WithImages(images)
	disp := hal.NewDisplay(cfg.Size.Width, cfg.Size.Height)
	k := kernel.New()
	logs := &lineLog{}
	c := New(cfg, disp, k, WithFetcher(memFetcher(files)), WithLogger(logs))
	if c.Inert() {
		t.Fatalf("carousel inert: %v", c.Err())
	}
	t.Cleanup(c.Close)
	return &harness{c: c, k: k, fb: disp.Framebuffer(), logs: logs}
}

// settle waits for the current batch to finish loading.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !h.c.Poll() {
		if time.Now().After(deadline) {
			t.Fatal("batch did not settle")
		}
		time.Sleep(time.Millisecond)
	}
}

// runUntilIdle runs frames until nothing is armed and returns how many ran.
func (h *harness) runUntilIdle(t *testing.T) int {
	t.Helper()
	frames := 0
	for !h.k.Idle() {
		h.k.Frame()
		frames++
		if frames > 10000 {
			t.Fatal("animation never stopped")
		}
	}
	return frames
}

func threeSlides(t *testing.T) *harness {
	files := map[string][]byte{
		"a.png": pngBytes(t, 200, 100), // 800 wide at 400
		"b.png": pngBytes(t, 100, 100), // 400
		"c.png": pngBytes(t, 300, 400), // 300
	}
	h := newHarness(t, []string{"a.png", "b.png", "c.png"}, files)
	h.c.Start(context.Background())
	h.settle(t)
	return h
}

func TestStartPositionsSlides(t *testing.T) {
	h := threeSlides(t)
	c := h.c

	if c.SlideCount() != 3 || c.Current() != 0 || c.Loading() {
		t.Fatalf("count=%d current=%d loading=%v", c.SlideCount(), c.Current(), c.Loading())
	}
	want := []float64{100, -520, -890}
	for i, s := range c.Slides() {
		if s.XCurrent != want[i] {
			t.Fatalf("slide %d rest offset = %v, want %v", i, s.XCurrent, want[i])
		}
	}
	if off, ok := c.Offset(); !ok || off != 100 {
		t.Fatalf("offset = %v (set %v), want snapped to 100", off, ok)
	}

	if frames := h.runUntilIdle(t); frames != 1 {
		t.Fatalf("settled carousel drew %d frames, want 1", frames)
	}
	if c.Animating() {
		t.Fatal("draw loop still running at rest")
	}
}

func TestRenderAlphaAndArrows(t *testing.T) {
	h := threeSlides(t)
	h.runUntilIdle(t)
	img := h.fb.Image()

	if got := img.RGBAAt(500, 200); !near(got, slideColor) {
		t.Fatalf("current slide pixel = %v, want %v", got, slideColor)
	}
	// Slide 1 starts at 920 and is drawn at 0.6 alpha.
	if a := img.RGBAAt(995, 200).A; a < 150 || a > 156 {
		t.Fatalf("neighbour slide alpha = %d, want ~153", a)
	}
	// Left arrow over an empty background, idle.
	if a := img.RGBAAt(60, 200).A; a < 125 || a > 130 {
		t.Fatalf("idle arrow alpha = %d, want ~128", a)
	}

	h.c.HandlePointer(hal.PointerEvent{Kind: hal.PointerMove, X: 40, DisplayWidth: 1000})
	if h.c.Hover() != input.ZoneLeft {
		t.Fatalf("hover = %v, want left", h.c.Hover())
	}
	if frames := h.runUntilIdle(t); frames != 1 {
		t.Fatalf("hover redraw ran %d frames, want 1", frames)
	}
	if a := img.RGBAAt(60, 200).A; a < 226 || a > 232 {
		t.Fatalf("hovered arrow alpha = %d, want ~230", a)
	}
}

func TestNavigationConvergesAndClamps(t *testing.T) {
	h := threeSlides(t)
	c := h.c
	h.runUntilIdle(t)

	c.Next()
	if c.Current() != 1 || !c.Animating() {
		t.Fatalf("after Next current=%d animating=%v", c.Current(), c.Animating())
	}
	// |-520 - 100| / 20 = 31 steps plus the frame that observes rest.
	if frames := h.runUntilIdle(t); frames > 32 {
		t.Fatalf("took %d frames, want <= 32", frames)
	}
	if off, _ := c.Offset(); off != -520 {
		t.Fatalf("offset = %v, want -520", off)
	}

	c.Next()
	c.Next()
	c.Next()
	if c.Current() != 2 {
		t.Fatalf("current = %d, want clamped to 2", c.Current())
	}
	h.runUntilIdle(t)
	if off, _ := c.Offset(); off != -890 {
		t.Fatalf("offset = %v, want -890", off)
	}

	for i := 0; i < 5; i++ {
		c.Prev()
	}
	if c.Current() != 0 {
		t.Fatalf("current = %d, want clamped to 0", c.Current())
	}
	frames := h.runUntilIdle(t)
	if limit := int(math.Ceil(990.0/20)) + 1; frames > limit {
		t.Fatalf("took %d frames, want <= %d", frames, limit)
	}
	if off, _ := c.Offset(); off != 100 {
		t.Fatalf("offset = %v, want 100", off)
	}
}

func TestDirectionGuard(t *testing.T) {
	h := threeSlides(t)
	c := h.c
	h.runUntilIdle(t)

	c.Next()
	c.direction = 1 // away from the target
	h.runUntilIdle(t)
	if off, _ := c.Offset(); off != -520 {
		t.Fatalf("offset = %v, want -520", off)
	}
}

func TestClickNavigates(t *testing.T) {
	h := threeSlides(t)
	h.runUntilIdle(t)

	h.c.HandlePointer(hal.PointerEvent{Kind: hal.PointerClick, X: 500, DisplayWidth: 1000})
	if h.c.Current() != 0 {
		t.Fatal("click in the middle must not navigate")
	}
	h.c.HandlePointer(hal.PointerEvent{Kind: hal.PointerClick, X: 980, DisplayWidth: 1000})
	if h.c.Current() != 1 {
		t.Fatalf("current = %d, want 1", h.c.Current())
	}
	h.c.HandleKey(hal.KeyEvent{Code: hal.KeyEnd, Press: true})
	if h.c.Current() != 2 {
		t.Fatalf("current = %d, want 2", h.c.Current())
	}
	h.c.HandleKey(hal.KeyEvent{Code: hal.KeyHome, Press: true})
	if h.c.Current() != 0 {
		t.Fatalf("current = %d, want 0", h.c.Current())
	}
}

func TestFailedLoadsArePrunedAndLogged(t *testing.T) {
	files := map[string][]byte{"ok.png": pngBytes(t, 100, 100)}
	h := newHarness(t, []string{"gone.png", "ok.png", "bad.png"}, files)
	h.c.Start(context.Background())
	h.settle(t)

	s := h.c.Slides()
	if len(s) != 1 || s[0].Source != "ok.png" {
		t.Fatalf("slides = %+v", s)
	}
	h.logs.mu.Lock()
	defer h.logs.mu.Unlock()
	if len(h.logs.lines) != 2 {
		t.Fatalf("log lines = %q, want 2", h.logs.lines)
	}
	for _, l := range h.logs.lines {
		if !strings.HasPrefix(l, "carousel: dropped ") {
			t.Fatalf("log line = %q", l)
		}
	}
}

func TestAllFailedLeavesBlankSurface(t *testing.T) {
	h := newHarness(t, []string{"x", "y"}, nil)
	h.c.Start(context.Background())
	h.settle(t)

	if h.c.SlideCount() != 0 || h.c.Current() != 0 {
		t.Fatalf("count=%d current=%d", h.c.SlideCount(), h.c.Current())
	}
	h.runUntilIdle(t)
	for _, p := range h.fb.Image().Pix {
		if p != 0 {
			t.Fatal("empty carousel must draw nothing, not even arrows")
		}
	}

	h.c.Next()
	h.c.Prev()
	if h.c.Current() != 0 || h.c.Animating() {
		t.Fatal("navigation on an empty carousel must be a no-op")
	}
	h.c.RequestRedraw()
	h.runUntilIdle(t)
	for _, p := range h.fb.Image().Pix {
		if p != 0 {
			t.Fatal("redraw of an empty carousel drew pixels")
		}
	}
}

func TestSpinnerStopsBeforeFirstDraw(t *testing.T) {
	gate := make(chan struct{})
	body := pngBytes(t, 100, 100)
	fetch := slides.FetcherFunc(func(ctx context.Context, src string) (io.ReadCloser, error) {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return io.NopCloser(bytes.NewReader(body)), nil
	})

	cfg := config.Defaults().WithImages([]string{"a"})
	disp := hal.NewDisplay(cfg.Size.Width, cfg.Size.Height)
	k := kernel.New()
	c := New(cfg, disp, k, WithFetcher(fetch))
	defer c.Close()
	c.Start(context.Background())

	for i := 0; i < 3; i++ {
		k.Frame()
	}
	if !c.Loading() || !c.spin.Running() || c.spin.Frames() != 3 {
		t.Fatalf("loading=%v spinning=%v frames=%d", c.Loading(), c.spin.Running(), c.spin.Frames())
	}
	c.Next()
	if c.Current() != 0 || c.Animating() {
		t.Fatal("navigation while loading must be ignored")
	}

	close(gate)
	h := &harness{c: c, k: k, fb: disp.Framebuffer()}
	h.settle(t)
	if c.spin.Running() {
		t.Fatal("spinner still running after the batch settled")
	}
	h.runUntilIdle(t)
	if c.spin.Frames() != 3 {
		t.Fatalf("spinner drew %d frames, want 3", c.spin.Frames())
	}
	if got := disp.Framebuffer().Image().RGBAAt(500, 200); !near(got, slideColor) {
		t.Fatalf("center pixel = %v, want slide color", got)
	}
}

func TestLoadImagesReplacesSlides(t *testing.T) {
	files := map[string][]byte{
		"a.png": pngBytes(t, 100, 100),
		"b.png": pngBytes(t, 100, 100),
		"c.png": pngBytes(t, 200, 100),
	}
	h := newHarness(t, []string{"a.png", "b.png"}, files)
	h.c.Start(context.Background())
	h.settle(t)
	h.c.Next()

	h.c.LoadImages([]string{"c.png"})
	if !h.c.Loading() || h.c.Animating() {
		t.Fatalf("after reload loading=%v animating=%v", h.c.Loading(), h.c.Animating())
	}
	h.settle(t)
	if h.c.SlideCount() != 1 || h.c.Current() != 0 {
		t.Fatalf("count=%d current=%d", h.c.SlideCount(), h.c.Current())
	}
	if got := h.c.Slides()[0].Width(); got != 800 {
		t.Fatalf("width = %v, want 800", got)
	}

	h.c.LoadImages(nil)
	h.settle(t)
	if h.c.SlideCount() != 1 || h.c.Images()[0] != "c.png" {
		t.Fatalf("reload of current list gave %v", h.c.Images())
	}
}

func TestInertCarousel(t *testing.T) {
	k := kernel.New()
	disp := hal.NewDisplay(100, 100)

	tests := []struct {
		name string
		c    *Carousel
		want error
	}{
		{"no images", New(config.Defaults(), disp, k), config.ErrNoImages},
		{"no display", New(config.Defaults().WithImages([]string{"a"}), nil, k), config.ErrNoDisplay},
		{"no kernel", New(config.Defaults().WithImages([]string{"a"}), disp, nil), ErrNoKernel},
	}
	for _, tt := range tests {
		c := tt.c
		if !c.Inert() || !errors.Is(c.Err(), tt.want) {
			t.Fatalf("%s: err = %v, want %v", tt.name, c.Err(), tt.want)
		}
		c.Start(context.Background())
		c.Next()
		c.Prev()
		c.LoadImages([]string{"b"})
		c.RequestRedraw()
		c.HandlePointer(hal.PointerEvent{Kind: hal.PointerClick, X: 1})
		c.HandleKey(hal.KeyEvent{Code: hal.KeyRight, Press: true})
		c.Close()
		if c.Poll() || c.Loading() || c.SlideCount() != 0 || c.Current() != 0 {
			t.Fatalf("%s: inert carousel changed state", tt.name)
		}
	}
	if !k.Idle() {
		t.Fatal("inert carousels armed frames")
	}
}

func TestCurrentClampedBeforeLoad(t *testing.T) {
	for _, current := range []int{-5, 7} {
		cfg := config.Defaults().WithImages([]string{"a"})
		cfg.Current = current
		c := New(cfg, hal.NewDisplay(cfg.Size.Width, cfg.Size.Height), kernel.New())
		if c.Inert() {
			t.Fatalf("carousel inert: %v", c.Err())
		}
		if c.Current() != 0 {
			t.Fatalf("Current %d: Current() = %d before load, want 0", current, c.Current())
		}
	}
}
