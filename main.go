package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"carousel/app"
	"carousel/hal"
	"carousel/internal/buildinfo"
	"carousel/slider/config"
)

func main() {
	var (
		configPath string
		headless   hal.HeadlessConfig
		scale      float64
	)
	flag.StringVar(&configPath, "config", "", "YAML or TOML config file.")
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Frame rate.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N frames in headless mode (0 = run until interrupted).")
	flag.StringVar(&headless.Snapshot, "snapshot", "", "Write the last headless frame to this PNG file.")
	flag.Float64Var(&scale, "scale", 1, "Initial window scale.")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [image-url ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(configPath, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	newApp := func(h hal.HAL) func() error {
		h.Logger().WriteLineString(buildinfo.String())
		return app.NewWithConfig(ctx, h, app.Config{Carousel: cfg})
	}

	if headless.Enabled {
		headless.Width, headless.Height = cfg.Size.Width, cfg.Size.Height
		if err := hal.RunHeadless(ctx, headless, newApp); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(hal.WindowConfig{
		Title:  cfg.Title,
		Width:  cfg.Size.Width,
		Height: cfg.Size.Height,
		Scale:  scale,
		Hz:     headless.Hz,
	}, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges the optional config file with image arguments, which
// replace the file's image list when present.
func loadConfig(path string, images []string) (config.Config, error) {
	var o config.Options
	if path != "" {
		var err error
		if o, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if len(images) > 0 {
		o.Images = images
	}
	cfg := config.Merge(o)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: pass image URLs as arguments or list them in -config", err)
	}
	return cfg, nil
}
