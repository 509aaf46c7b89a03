// Package viewer shows a finished run in a window.
package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/olivierh59500/magnet-art/internal/render"
	"github.com/olivierh59500/magnet-art/internal/sim"
)

// maxWindowSide caps the initial window so large canvases still fit on
// screen; ebiten scales the layout into it.
const maxWindowSide = 900

// Viewer is an ebiten.Game that displays a fixed set of segments. The
// strokes are painted once onto an offscreen image and blitted each frame.
type Viewer struct {
	Width, Height int
	style         render.Style
	segments      []sim.Segment
	canvas        *ebiten.Image
}

// New creates a viewer for the given canvas size and segments.
func New(width, height int, segments []sim.Segment, style render.Style) *Viewer {
	return &Viewer{
		Width:    width,
		Height:   height,
		style:    style,
		segments: segments,
	}
}

// Update is called each tick by Ebitengine. Escape closes the window.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

// Draw is called each frame by Ebitengine
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.canvas == nil {
		v.paint()
	}
	screen.DrawImage(v.canvas, &ebiten.DrawImageOptions{})
}

// Layout returns the canvas size
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.Width, v.Height
}

func (v *Viewer) paint() {
	v.canvas = ebiten.NewImage(v.Width, v.Height)
	v.canvas.Fill(v.style.Background)
	width := float32(v.style.StrokeWidth)
	for _, s := range v.segments {
		vector.StrokeLine(v.canvas,
			float32(s.From.X), float32(s.From.Y),
			float32(s.To.X), float32(s.To.Y),
			width, v.style.Stroke, true)
	}
}

// WindowSize returns the initial window size, scaled down to fit.
func (v *Viewer) WindowSize() (int, int) {
	w, h := v.Width, v.Height
	if side := max(w, h); side > maxWindowSide {
		w = w * maxWindowSide / side
		h = h * maxWindowSide / side
	}
	return w, h
}

// Run opens the window and blocks until it is closed.
func Run(v *Viewer, title string) error {
	ebiten.SetWindowSize(v.WindowSize())
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(30)
	return ebiten.RunGame(v)
}
