// Package app wires the host, the frame kernel and the carousel into a
// per-frame step function for the hal runners.
package app

import (
	"context"
	"fmt"

	"carousel/hal"
	"carousel/kernel"
	"carousel/slider/carousel"
	"carousel/slider/config"
	"carousel/slider/slides"
)

type Config struct {
	Carousel config.Config
	// Fetcher overrides how image sources are read. Nil uses http and files.
	Fetcher slides.Fetcher
}

type system struct {
	h   hal.HAL
	log hal.Logger
	k   *kernel.Kernel
	c   *carousel.Carousel

	keys    <-chan hal.KeyEvent
	pointer <-chan hal.PointerEvent
}

// NewWithConfig builds the carousel on h, starts loading its images and
// returns the step function to call once per frame. ctx bounds image fetches.
func NewWithConfig(ctx context.Context, h hal.HAL, cfg Config) func() error {
	return newSystem(ctx, h, cfg).step
}

func newSystem(ctx context.Context, h hal.HAL, cfg Config) *system {
	s := &system{h: h, log: h.Logger(), k: kernel.New()}
	installPanicHandler(h, s.k)

	if in := h.Input(); in != nil {
		if kb := in.Keyboard(); kb != nil {
			s.keys = kb.Events()
		}
		if p := in.Pointer(); p != nil {
			s.pointer = p.Events()
		}
	}

	opts := []carousel.Option{carousel.WithLogger(s.log)}
	if cfg.Fetcher != nil {
		opts = append(opts, carousel.WithFetcher(cfg.Fetcher))
	}
	s.c = carousel.New(cfg.Carousel, h.Display(), s.k, opts...)
	if err := s.c.Err(); err != nil {
		s.logf("carousel: disabled: %v", err)
		return s
	}
	s.logf("carousel: loading %d images", len(cfg.Carousel.Images))
	s.c.Start(ctx)
	return s
}

// step drains input, applies finished loads and runs one kernel frame.
func (s *system) step() error {
	if err := s.drainKeys(); err != nil {
		return err
	}
	s.drainPointer()

	if s.c.Poll() {
		s.logf("carousel: %d of %d slides ready", s.c.SlideCount(), len(s.c.Images()))
	}
	if s.k.InPanicMode() {
		return nil
	}
	if s.k.Frame() > 0 {
		return s.present()
	}
	return nil
}

func (s *system) drainKeys() error {
	for {
		select {
		case ev := <-s.keys:
			if ev.Press && ev.Code == hal.KeyEscape {
				return hal.ErrQuit
			}
			s.c.HandleKey(ev)
		default:
			return nil
		}
	}
}

func (s *system) drainPointer() {
	for {
		select {
		case ev := <-s.pointer:
			s.c.HandlePointer(ev)
		default:
			return
		}
	}
}

func (s *system) present() error {
	disp := s.h.Display()
	if disp == nil {
		return nil
	}
	if fb := disp.Framebuffer(); fb != nil {
		return fb.Present()
	}
	return nil
}

func (s *system) logf(format string, args ...any) {
	if s.log != nil {
		s.log.WriteLineString(fmt.Sprintf(format, args...))
	}
}
