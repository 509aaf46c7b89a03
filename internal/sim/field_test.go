package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestContribution(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 1000; i++ {
			p := r2.Vec{X: rng.Float64() * 1000, Y: rng.Float64() * 1000}
			m := r2.Vec{X: rng.Float64() * 1000, Y: rng.Float64() * 1000}
			c := Contribution(p, m, -4+rng.Float64()*8)
			assert.InDelta(t, 1.0, r2.Norm(c), 1e-12)
		}
	})

	t.Run("both deltas are taken from the particle x", func(t *testing.T) {
		// With p.X = 10 both deltas are 490, so the angle is pi/4 no
		// matter what p.Y is.
		m := r2.Vec{X: 500, Y: 500}
		want := r2.Vec{X: math.Sin(math.Pi / 4), Y: math.Cos(math.Pi / 4)}

		for _, y := range []float64{0, 10, 999} {
			got := Contribution(r2.Vec{X: 10, Y: y}, m, 1)
			assert.InDelta(t, want.X, got.X, 1e-15)
			assert.InDelta(t, want.Y, got.Y, 1e-15)
		}
	})

	t.Run("coincident deltas give angle zero", func(t *testing.T) {
		got := Contribution(r2.Vec{X: 3, Y: 7}, r2.Vec{X: 3, Y: 3}, 4)
		assert.Equal(t, r2.Vec{X: 0, Y: 1}, got)
	})

	t.Run("polarity mirrors the x component", func(t *testing.T) {
		p := r2.Vec{X: 120, Y: 300}
		m := r2.Vec{X: 640, Y: 410}
		pos := Contribution(p, m, DefaultGain)
		neg := Contribution(p, m, -DefaultGain)
		assert.InDelta(t, pos.X, -neg.X, 1e-15)
		assert.InDelta(t, pos.Y, neg.Y, 1e-15)
	})
}

func TestNetForce(t *testing.T) {
	t.Run("mean magnitude is bounded by one", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for trial := 0; trial < 200; trial++ {
			magnets := make([]Magnet, 1+rng.Intn(15))
			for i := range magnets {
				magnets[i] = Magnet{
					Pos:      r2.Vec{X: rng.Float64() * 1000, Y: rng.Float64() * 1000},
					Polarity: float64(1 - 2*rng.Intn(2)),
				}
			}
			pos := r2.Vec{X: rng.Float64() * 1000, Y: rng.Float64() * 1000}

			f, err := NetForce(pos, magnets, DefaultGain)
			require.NoError(t, err)
			assert.LessOrEqual(t, r2.Norm(f), 1+1e-12)
		}
	})

	t.Run("single magnet is the contribution itself", func(t *testing.T) {
		pos := r2.Vec{X: 321, Y: 654}
		m := Magnet{Pos: r2.Vec{X: 500, Y: 500}, Polarity: 1}

		f, err := NetForce(pos, []Magnet{m}, DefaultGain)
		require.NoError(t, err)
		assert.Equal(t, Contribution(pos, m.Pos, DefaultGain), f)
	})

	t.Run("mean of several magnets", func(t *testing.T) {
		pos := r2.Vec{X: 200, Y: 800}
		magnets := []Magnet{
			{Pos: r2.Vec{X: 100, Y: 100}, Polarity: 1},
			{Pos: r2.Vec{X: 900, Y: 300}, Polarity: -1},
			{Pos: r2.Vec{X: 450, Y: 700}, Polarity: 1},
		}
		var sum r2.Vec
		for _, m := range magnets {
			sum = r2.Add(sum, Contribution(pos, m.Pos, m.Polarity*DefaultGain))
		}

		f, err := NetForce(pos, magnets, DefaultGain)
		require.NoError(t, err)
		assert.Equal(t, r2.Vec{X: sum.X / 3, Y: sum.Y / 3}, f)
	})

	t.Run("no magnets fails fast", func(t *testing.T) {
		f, err := NetForce(r2.Vec{X: 1, Y: 1}, nil, DefaultGain)
		assert.ErrorIs(t, err, ErrNoMagnets)
		assert.Equal(t, r2.Vec{}, f)
	})
}
