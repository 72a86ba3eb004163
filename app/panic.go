package app

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"carousel/hal"
	"carousel/kernel"
	"carousel/slider/raster"

	"golang.org/x/image/draw"
)

func installPanicHandler(h hal.HAL, k *kernel.Kernel) {
	k.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		fb := disp.Framebuffer()
		if fb == nil {
			return
		}
		drawPanicScreen(fb, lines)
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"Carousel Panic:",
		fmt.Sprintf("task: %d frame: %d", info.TaskID, info.Frame),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// drawPanicScreen paints lines black on white, wrapping at the surface width
// and stopping at the bottom edge.
func drawPanicScreen(fb hal.Framebuffer, lines []string) {
	img := fb.Image()
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	fontWidth := raster.TextWidth("0")
	if fontWidth <= 0 {
		_ = fb.Present()
		return
	}
	cols := max(fb.Width()/fontWidth, 1)

	c := raster.New(img)
	fg := color.RGBA{A: 0xFF}
	y := raster.LineHeight
	for _, line := range lines {
		for len(line) > 0 {
			if y > fb.Height() {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			c.Text(0, y, chunk, fg)
			y += raster.LineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
