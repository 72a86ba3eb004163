// Command mkslides fetches a slide set once and writes every image scaled to
// the carousel height, so a deck can be served from local files.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"carousel/slider/config"
	"carousel/slider/slides"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML or TOML config file to take images and sizes from.")
		outDir     = flag.String("out", "", "Output directory.")
		height     = flag.Int("height", 0, "Slide height in pixels (default: config size.height).")
		workers    = flag.Int("workers", 0, "Concurrent fetches (default: config fetch.workers).")
	)
	flag.Parse()

	if *outDir == "" {
		fatalf("usage: mkslides -out dir [-config carousel.yaml] [-height 400] [-workers 4] [image-url ...]")
	}

	var o config.Options
	if *configPath != "" {
		var err error
		if o, err = config.Load(*configPath); err != nil {
			fatalf("%v", err)
		}
	}
	if flag.NArg() > 0 {
		o.Images = flag.Args()
	}
	cfg := config.Merge(o)
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	if *height > 0 {
		cfg.Size.Height = *height
	}
	if *workers > 0 {
		cfg.Fetch.Workers = *workers
	}

	l := slides.NewLoader(cfg.Size.Height, cfg.Fetch.Workers, cfg.Fetch.Timeout, nil)
	res, err := bake(context.Background(), l, cfg.Images, *outDir)
	if err != nil {
		fatalf("%v", err)
	}
	for _, f := range res.failed {
		fmt.Fprintf(os.Stderr, "skipped: %s\n", f)
	}
	fmt.Printf("wrote %d of %d slides to %s\n", len(res.written), len(cfg.Images), *outDir)
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

type bakeResult struct {
	written []string
	failed  []string
}

// bake loads srcs as one batch and writes the surviving slides, in order, as
// 000.png, 001.png, ... under outDir.
func bake(ctx context.Context, l *slides.Loader, srcs []string, outDir string) (bakeResult, error) {
	var res bakeResult
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return res, err
	}

	c := slides.New(l)
	defer c.Close()
	c.OnFailure(func(src string, err error) {
		res.failed = append(res.failed, fmt.Sprintf("%s: %v", src, err))
	})

	c.Load(ctx, srcs)
	for c.Loading() {
		select {
		case ev := <-c.Events():
			c.Dispatch(ev)
		case <-ctx.Done():
			return res, ctx.Err()
		case <-time.After(time.Minute):
			return res, fmt.Errorf("timed out with %d loads pending", c.Pending())
		}
	}

	for i, s := range c.Slides() {
		path := filepath.Join(outDir, fmt.Sprintf("%03d.png", i))
		if err := writePNG(path, s); err != nil {
			return res, err
		}
		res.written = append(res.written, path)
	}
	return res, nil
}

func writePNG(path string, s slides.Slide) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(f, 64*1024)
	err = png.Encode(bw, s.Image)
	if ferr := bw.Flush(); err == nil {
		err = ferr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s (from %s): %w", path, s.Source, err)
	}
	return nil
}
