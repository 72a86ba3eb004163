//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostPointer struct {
	ch     chan PointerEvent
	inside bool
	x, y   int
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

// poll translates ebiten cursor state into move/leave/click events.
// screenW and screenH are the displayed surface size.
func (p *hostPointer) poll(screenW, screenH int) {
	x, y := ebiten.CursorPosition()
	inside := ebiten.IsFocused() && x >= 0 && y >= 0 && x < screenW && y < screenH

	switch {
	case inside && (!p.inside || x != p.x || y != p.y):
		p.emit(PointerEvent{Kind: PointerMove, X: x, Y: y, DisplayWidth: screenW})
	case !inside && p.inside:
		p.emit(PointerEvent{Kind: PointerLeave})
	}
	p.inside = inside
	p.x, p.y = x, y

	if inside && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		p.emit(PointerEvent{Kind: PointerClick, X: x, Y: y, DisplayWidth: screenW})
	}
}

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}
