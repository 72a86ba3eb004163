package hal

import (
	"errors"
	"io"
	"os"
)

// ErrQuit is returned by an app step to end the run loop cleanly.
var ErrQuit = errors.New("quit")

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	// Scale multiplies the initial window size; the window stays resizable.
	Scale float64
	Hz    int
	Log   io.Writer
}

func (c WindowConfig) withDefaults() WindowConfig {
	if c.Title == "" {
		c.Title = "Carousel"
	}
	if c.Width <= 0 {
		c.Width = 1000
	}
	if c.Height <= 0 {
		c.Height = 400
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Hz <= 0 {
		c.Hz = 60
	}
	return c
}

func (c WindowConfig) logOut() io.Writer {
	if c.Log != nil {
		return c.Log
	}
	return os.Stdout
}
