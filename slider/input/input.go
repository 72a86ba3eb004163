// Package input turns pointer and key events into carousel navigation.
package input

import (
	"math"

	"carousel/hal"
)

// Zone is the hover region under the pointer. Its value doubles as the
// navigation step a click in that region triggers.
type Zone int

const (
	ZoneLeft  Zone = -1
	ZoneNone  Zone = 0
	ZoneRight Zone = 1
)

func (z Zone) String() string {
	switch z {
	case ZoneLeft:
		return "left"
	case ZoneRight:
		return "right"
	default:
		return "none"
	}
}

// Geometry locates the arrow hit zones on a surface of the given width.
type Geometry struct {
	Width       float64
	ArrowWidth  float64
	ArrowOffset float64
}

// ArrowGeometry returns the arrow geometry for a surface width: arrows sit
// 3% in from each edge and are 5% wide.
func ArrowGeometry(width int) Geometry {
	w := float64(width)
	return Geometry{Width: w, ArrowWidth: 0.05 * w, ArrowOffset: 0.03 * w}
}

// Classify maps a backing-surface x coordinate to a zone. Both boundaries
// are inclusive.
func Classify(x float64, g Geometry) Zone {
	edge := g.ArrowOffset + g.ArrowWidth
	switch {
	case x <= edge:
		return ZoneLeft
	case x >= g.Width-edge:
		return ZoneRight
	default:
		return ZoneNone
	}
}

// Rescale converts x from displayed coordinates to backing coordinates.
func Rescale(x, backing, displayed int) int {
	if displayed <= 0 || displayed == backing {
		return x
	}
	return int(math.Round(float64(x) * float64(backing) / float64(displayed)))
}

// Target is the carousel state the handler drives.
type Target interface {
	Hover() Zone
	SetHover(Zone)
	RequestRedraw()
	ChangeSlide(step int)
	SlideCount() int
}

// Handler dispatches input events to a Target.
type Handler struct {
	t Target
	g Geometry
}

func NewHandler(t Target, g Geometry) *Handler {
	return &Handler{t: t, g: g}
}

// PointerMove updates the hover zone; a change requests one redraw.
// displayedWidth is the width the surface is shown at.
func (h *Handler) PointerMove(x, displayedWidth int) {
	x = Rescale(x, int(h.g.Width), displayedWidth)
	zone := Classify(float64(x), h.g)
	if zone == h.t.Hover() {
		return
	}
	h.t.SetHover(zone)
	h.t.RequestRedraw()
}

// PointerLeave clears the hover zone and requests one redraw.
func (h *Handler) PointerLeave() {
	h.t.SetHover(ZoneNone)
	h.t.RequestRedraw()
}

// Click navigates one slide toward the hovered arrow.
func (h *Handler) Click() {
	if step := h.t.Hover(); step != ZoneNone {
		h.t.ChangeSlide(int(step))
	}
}

// HandlePointer routes a host pointer event.
func (h *Handler) HandlePointer(ev hal.PointerEvent) {
	switch ev.Kind {
	case hal.PointerMove:
		h.PointerMove(ev.X, ev.DisplayWidth)
	case hal.PointerLeave:
		h.PointerLeave()
	case hal.PointerClick:
		// Clicks carry a position; classify first in case no move preceded it.
		h.PointerMove(ev.X, ev.DisplayWidth)
		h.Click()
	}
}

// Key handles arrow, Home and End presses. Releases are ignored.
func (h *Handler) Key(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	switch ev.Code {
	case hal.KeyLeft:
		h.t.ChangeSlide(-1)
	case hal.KeyRight:
		h.t.ChangeSlide(1)
	case hal.KeyHome:
		h.t.ChangeSlide(-h.t.SlideCount())
	case hal.KeyEnd:
		h.t.ChangeSlide(h.t.SlideCount())
	}
}
