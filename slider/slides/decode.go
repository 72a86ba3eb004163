package slides

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	// Register decoders for the formats a slide may use.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// maxImagePixels caps the decoded size of a single image. Decoders allocate
// the whole bitmap from the header before reading pixel data.
const maxImagePixels = 64 << 20

var errEmptyImage = errors.New("slides: image has no pixels")

// Decode decodes a PNG, JPEG, GIF, BMP or WebP image. Images whose header
// declares more than maxImagePixels pixels fail with ErrTooLarge.
func Decode(r io.Reader) (image.Image, error) {
	var head bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, fmt.Errorf("slides: decode: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("slides: decode %s: %w", format, errEmptyImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("slides: decode %s %dx%d: %w", format, cfg.Width, cfg.Height, ErrTooLarge)
	}

	img, format, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, fmt.Errorf("slides: decode: %w", err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("slides: decode %s: %w", format, errEmptyImage)
	}
	return img, nil
}
