package hal

import (
	"image"
	"sync"
)

type hostFramebuffer struct {
	mu       sync.Mutex
	img      *image.RGBA
	presents uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &hostFramebuffer{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (f *hostFramebuffer) Width() int         { return f.img.Rect.Dx() }
func (f *hostFramebuffer) Height() int        { return f.img.Rect.Dy() }
func (f *hostFramebuffer) Image() *image.RGBA { return f.img }

func (f *hostFramebuffer) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.img.Pix)
}

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presents++
	return nil
}

// snapshot copies the pixels if a frame was presented after seq.
func (f *hostFramebuffer) snapshot(dst []byte, seq uint64) (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.presents == seq {
		return seq, false
	}
	copy(dst, f.img.Pix)
	return f.presents, true
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

// NewDisplay returns an in-memory display of the given size.
func NewDisplay(width, height int) Display {
	return hostDisplay{fb: newHostFramebuffer(width, height)}
}
