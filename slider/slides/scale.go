package slides

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ScaleToHeight renders img onto a new bitmap of the given height, keeping
// the aspect ratio: width = srcWidth * height / srcHeight.
func ScaleToHeight(img image.Image, height int) (*image.RGBA, error) {
	if height <= 0 {
		return nil, fmt.Errorf("slides: invalid target height %d", height)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errEmptyImage
	}

	width := max(b.Dx()*height/b.Dy(), 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == b.Dx() && height == b.Dy() {
		draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
		return dst, nil
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}
