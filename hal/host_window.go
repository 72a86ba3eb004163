//go:build cgo

package hal

import (
	"errors"

	"carousel/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a desktop window that displays the framebuffer and forwards
// keyboard and pointer input. It blocks until the window closes or step
// returns ErrQuit.
func RunWindow(cfg WindowConfig, newApp func(HAL) func() error) error {
	cfg = cfg.withDefaults()
	h := newHost(cfg.Width, cfg.Height, cfg.logOut())
	step := newApp(h)

	g := &hostGame{
		h:       h,
		step:    step,
		screenW: int(float64(cfg.Width) * cfg.Scale),
		screenH: int(float64(cfg.Height) * cfg.Scale),
	}
	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(g.screenW, g.screenH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Hz)
	err := ebiten.RunGame(g)
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

type hostGame struct {
	h    *hostHAL
	step func() error

	fbImg *ebiten.Image
	pix   []byte
	seq   uint64

	screenW int
	screenH int
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll(g.screenW, g.screenH)
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.Width(), fb.Height()
	if g.fbImg == nil {
		g.fbImg = ebiten.NewImage(w, h)
		g.pix = make([]byte, len(fb.img.Pix))
	}

	if seq, ok := fb.snapshot(g.pix, g.seq); ok {
		g.seq = seq
		g.fbImg.WritePixels(g.pix)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.screenW)/float64(w), float64(g.screenH)/float64(h))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.fbImg, op)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
