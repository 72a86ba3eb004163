// Package palette generates spinner arc colors.
package palette

import (
	"image/color"
	"math"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// maxAttempts bounds the retries spent replacing a duplicate color.
const maxAttempts = 64

// Random returns n distinct, fully opaque random colors.
func Random(n int) []color.RGBA {
	if n <= 0 {
		return nil
	}

	out := make([]color.RGBA, 0, n)
	seen := make(map[color.RGBA]bool, n)
	add := func(c colorful.Color) bool {
		r, g, b := c.Clamped().RGB255()
		rgba := color.RGBA{R: r, G: g, B: b, A: 0xFF}
		if seen[rgba] {
			return false
		}
		seen[rgba] = true
		out = append(out, rgba)
		return true
	}

	for _, c := range colorful.FastHappyPalette(n) {
		if !add(c) {
			for i := 0; i < maxAttempts; i++ {
				if add(randomHappy()) {
					break
				}
			}
		}
	}
	// Fall back to an evenly spaced hue wheel if randomness kept colliding.
	for i := 0; len(out) < n && i < n*maxAttempts; i++ {
		h := math.Mod(float64(i)*360/float64(n)+rand.Float64(), 360)
		add(colorful.Hsv(h, 0.7, 0.8))
	}
	return out
}

func randomHappy() colorful.Color {
	return colorful.Hsv(rand.Float64()*360, 0.5+rand.Float64()*0.3, 0.6+rand.Float64()*0.3)
}
