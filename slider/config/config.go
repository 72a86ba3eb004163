// Package config holds the carousel configuration.
//
// Options is the user-facing shape: every field is optional and nil means
// "use the default". Merge resolves Options against Defaults into an
// immutable Config value; nothing here is shared mutable state.
package config

import (
	"errors"
	"math"
	"slices"
	"time"
)

var (
	ErrNoDisplay = errors.New("config: no display")
	ErrNoImages  = errors.New("config: image list is empty")
)

type Size struct {
	Width  int
	Height int
}

type Spinner struct {
	ArcCount  int
	Speed     float64
	LineWidth float64
	// Segment is the fraction of a full circle each arc spans.
	Segment float64
}

type Fetch struct {
	Workers int
	Timeout time.Duration
}

// Config is a fully resolved configuration.
type Config struct {
	Title      string
	Images     []string
	Size       Size
	Current    int
	Speed      float64
	WhiteSpace float64
	Caption    bool
	Spinner    Spinner
	Fetch      Fetch
}

// Defaults returns the default configuration (no images).
func Defaults() Config {
	return Config{
		Title:      "Carousel",
		Size:       Size{Width: 1000, Height: 400},
		Current:    0,
		Speed:      20,
		WhiteSpace: 20,
		Spinner: Spinner{
			ArcCount:  6,
			Speed:     0.02,
			LineWidth: 15,
			Segment:   0.8,
		},
		Fetch: Fetch{
			Workers: 4,
			Timeout: 15 * time.Second,
		},
	}
}

// Validate reports why c cannot drive a carousel.
func (c Config) Validate() error {
	if len(c.Images) == 0 {
		return ErrNoImages
	}
	return nil
}

// WithImages returns a copy of c using the given image list.
func (c Config) WithImages(images []string) Config {
	c.Images = slices.Clone(images)
	return c
}

type SizeOptions struct {
	Width  *int `yaml:"width" toml:"width"`
	Height *int `yaml:"height" toml:"height"`
}

type SpinnerOptions struct {
	ArcCount  *int     `yaml:"arcCount" toml:"arcCount"`
	Speed     *float64 `yaml:"speed" toml:"speed"`
	LineWidth *float64 `yaml:"lineWidth" toml:"lineWidth"`
	Segment   *float64 `yaml:"segment" toml:"segment"`
}

type FetchOptions struct {
	Workers *int `yaml:"workers" toml:"workers"`
	// Timeout is a Go duration string such as "15s".
	Timeout *string `yaml:"timeout" toml:"timeout"`
}

// Options is a partial configuration as read from a file or flags.
type Options struct {
	Title      *string         `yaml:"title" toml:"title"`
	Images     []string        `yaml:"images" toml:"images"`
	Size       *SizeOptions    `yaml:"size" toml:"size"`
	Current    *int            `yaml:"current" toml:"current"`
	Speed      *float64        `yaml:"speed" toml:"speed"`
	WhiteSpace *float64        `yaml:"whiteSpace" toml:"whiteSpace"`
	Caption    *bool           `yaml:"caption" toml:"caption"`
	Spinner    *SpinnerOptions `yaml:"spinner" toml:"spinner"`
	Fetch      *FetchOptions   `yaml:"fetch" toml:"fetch"`
}

// Merge resolves o against Defaults.
//
// Speeds, sizes and counts must be positive; zero or negative values fall
// back to the default. WhiteSpace accepts zero but not negative gaps.
func Merge(o Options) Config {
	c := Defaults()
	if o.Title != nil && *o.Title != "" {
		c.Title = *o.Title
	}
	c.Images = slices.Clone(o.Images)
	if o.Size != nil {
		c.Size.Width = positiveInt(o.Size.Width, c.Size.Width)
		c.Size.Height = positiveInt(o.Size.Height, c.Size.Height)
	}
	if o.Current != nil {
		c.Current = *o.Current
	}
	c.Speed = positiveFloat(o.Speed, c.Speed)
	if o.WhiteSpace != nil {
		if ws := *o.WhiteSpace; ws > 0 && !math.IsInf(ws, 0) {
			c.WhiteSpace = ws
		} else {
			c.WhiteSpace = 0
		}
	}
	if o.Caption != nil {
		c.Caption = *o.Caption
	}
	if s := o.Spinner; s != nil {
		c.Spinner.ArcCount = positiveInt(s.ArcCount, c.Spinner.ArcCount)
		c.Spinner.Speed = positiveFloat(s.Speed, c.Spinner.Speed)
		c.Spinner.LineWidth = positiveFloat(s.LineWidth, c.Spinner.LineWidth)
		c.Spinner.Segment = positiveFloat(s.Segment, c.Spinner.Segment)
	}
	if f := o.Fetch; f != nil {
		c.Fetch.Workers = positiveInt(f.Workers, c.Fetch.Workers)
		if f.Timeout != nil {
			if d, err := time.ParseDuration(*f.Timeout); err == nil && d > 0 {
				c.Fetch.Timeout = d
			}
		}
	}
	return c
}

func positiveInt(v *int, def int) int {
	if v == nil || *v <= 0 {
		return def
	}
	return *v
}

func positiveFloat(v *float64, def float64) float64 {
	if v == nil || !(*v > 0) || math.IsInf(*v, 0) {
		return def
	}
	return *v
}
