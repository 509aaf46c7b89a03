package sim

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultGain multiplies a magnet's polarity before it scales the field angle.
const DefaultGain = 4.0

var (
	// ErrNoMagnets is returned when a force is requested from an empty
	// magnet set. The mean would divide by zero.
	ErrNoMagnets = errors.New("sim: at least one magnet is required")
	// ErrNonFinite is returned when a coordinate is NaN or infinite.
	ErrNonFinite = errors.New("sim: non-finite coordinate")
)

// Contribution returns the unit direction a single magnet at m pushes a
// particle at p towards. mp is the magnet polarity already multiplied by
// the gain.
//
// Both atan2 arguments are measured from p.X. The resulting field is not
// symmetric in x and y; that asymmetry is what gives the images their look
// and must not be replaced with a true (dx, dy) delta.
func Contribution(p, m r2.Vec, mp float64) r2.Vec {
	angle := math.Atan2(m.X-p.X, m.Y-p.X) * mp
	return r2.Vec{X: math.Sin(angle), Y: math.Cos(angle)}
}

// NetForce returns the mean of the contributions of every magnet on a
// particle at pos. The result never exceeds unit length.
func NetForce(pos r2.Vec, magnets []Magnet, gain float64) (r2.Vec, error) {
	p := Particle{Pos: pos}
	if err := p.ApplyField(magnets, gain); err != nil {
		return r2.Vec{}, err
	}
	return p.Force, nil
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
