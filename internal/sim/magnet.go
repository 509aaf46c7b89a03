package sim

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Magnet is a fixed point source. Polarity is +1 or -1 and scales the
// angular term of the field.
type Magnet struct {
	Pos      r2.Vec
	Polarity float64
}

// Bounds is the drawable canvas together with the border inset used by the
// visibility gate.
type Bounds struct {
	Width, Height float64
	Border        float64
}

// Contains reports whether p lies strictly inside the border inset.
func (b Bounds) Contains(p r2.Vec) bool {
	return p.X > b.Border && p.X < b.Width-b.Border &&
		p.Y > b.Border && p.Y < b.Height-b.Border
}

// Center returns the middle of the canvas.
func (b Bounds) Center() r2.Vec {
	return r2.Vec{X: b.Width / 2, Y: b.Height / 2}
}
