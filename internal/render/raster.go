package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/olivierh59500/magnet-art/internal/sim"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

const clipSlack = 1.0 / 64

// Raster paints segments onto an RGBA canvas. Each segment becomes a thin
// quad in a single rasterizer; the strokes are composited over the
// background when Image is called.
type Raster struct {
	style    Style
	width    int
	height   int
	z        *vector.Rasterizer
	img      *image.RGBA
	dirty    bool
	segments int
}

// NewRaster creates an empty width x height canvas.
func NewRaster(width, height int, style Style) *Raster {
	z := vector.NewRasterizer(width, height)
	z.DrawOp = draw.Over
	return &Raster{
		style:  style,
		width:  width,
		height: height,
		z:      z,
		dirty:  true,
	}
}

// DrawSegment adds seg to the canvas. Zero-length segments leave no mark.
func (r *Raster) DrawSegment(seg sim.Segment) error {
	d := r2.Sub(seg.To, seg.From)
	length := r2.Norm(d)
	if math.IsNaN(length) || math.IsInf(length, 0) {
		return fmt.Errorf("render: non-finite segment %v", seg)
	}

	// The rasterizer only accepts points on the canvas, so the centre line
	// is clipped to a box inset by half the stroke width plus a little
	// slack for rounding.
	half := r.style.StrokeWidth / 2
	inset := half + clipSlack
	box := r2.Box{
		Min: r2.Vec{X: inset, Y: inset},
		Max: r2.Vec{X: float64(r.width) - inset, Y: float64(r.height) - inset},
	}
	seg, ok := clipSegment(seg, box)
	if !ok {
		return nil
	}
	d = r2.Sub(seg.To, seg.From)
	length = r2.Norm(d)
	if length == 0 {
		return nil
	}

	// Offsetting along the left normal keeps every quad wound the same
	// way, so overlapping strokes add up instead of cancelling.
	n := r2.Vec{X: -d.Y / length * half, Y: d.X / length * half}
	a := r2.Add(seg.From, n)
	b := r2.Add(seg.To, n)
	c := r2.Sub(seg.To, n)
	e := r2.Sub(seg.From, n)

	r.z.MoveTo(float32(a.X), float32(a.Y))
	r.z.LineTo(float32(b.X), float32(b.Y))
	r.z.LineTo(float32(c.X), float32(c.Y))
	r.z.LineTo(float32(e.X), float32(e.Y))
	r.z.ClosePath()

	r.segments++
	r.dirty = true
	return nil
}

// Segments returns how many segments left a mark.
func (r *Raster) Segments() int { return r.segments }

// Image returns the composited canvas.
func (r *Raster) Image() *image.RGBA {
	if !r.dirty {
		return r.img
	}
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.style.Background), image.Point{}, draw.Src)
	r.z.Draw(img, img.Bounds(), image.NewUniform(r.style.Stroke), image.Point{})
	r.img = img
	r.dirty = false
	return img
}

// EncodePNG writes the canvas as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.Image()); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// clipSegment clips seg to box (Liang-Barsky). ok is false when nothing of
// seg lies inside.
func clipSegment(seg sim.Segment, box r2.Box) (sim.Segment, bool) {
	if box.Min.X > box.Max.X || box.Min.Y > box.Max.Y {
		return sim.Segment{}, false
	}
	d := r2.Sub(seg.To, seg.From)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-d.X, seg.From.X - box.Min.X},
		{d.X, box.Max.X - seg.From.X},
		{-d.Y, seg.From.Y - box.Min.Y},
		{d.Y, box.Max.Y - seg.From.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return sim.Segment{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return sim.Segment{}, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return sim.Segment{}, false
			}
			t1 = math.Min(t1, t)
		}
	}
	if t0 == 0 && t1 == 1 {
		return seg, true
	}
	return sim.Segment{
		From: r2.Add(seg.From, r2.Scale(t0, d)),
		To:   r2.Add(seg.From, r2.Scale(t1, d)),
	}, true
}
