package hal

import "image"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Framebuffer is an RGBA pixel buffer plus a "present" hook.
//
// Content persists between frames until the owner clears it.
type Framebuffer interface {
	Width() int
	Height() int
	Image() *image.RGBA
	Clear()
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyEscape
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerKind classifies pointer events.
type PointerKind uint8

const (
	PointerMove PointerKind = iota + 1
	PointerLeave
	PointerClick
)

// PointerEvent is a pointer event in displayed coordinates.
//
// DisplayWidth is the width the surface is shown at; it differs from the
// framebuffer width when the window is scaled.
type PointerEvent struct {
	Kind         PointerKind
	X, Y         int
	DisplayWidth int
}

// Pointer provides pointer events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// HAL provides the only contact point between the carousel and the host.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}
