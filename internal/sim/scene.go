package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"
)

// Perlin parameters for the optional ring wobble.
const (
	wobbleAlpha = 2.0
	wobbleBeta  = 2.0
	wobbleOcts  = 3
	// wobbleFreq is how far around the noise plane the ring travels.
	wobbleFreq = 1.5
)

// ErrInvalidScene wraps every scene precondition failure.
var ErrInvalidScene = errors.New("sim: invalid scene")

// SceneOptions controls how a scene is seeded.
type SceneOptions struct {
	Width, Height  float64
	MinMagnets     int
	MaxMagnets     int
	MagnetMargin   float64
	RingRadius     float64
	RingSamples    int
	RingWobble     float64
	VelocityJitter float64
}

// DefaultSceneOptions returns the stock 1000x1000 scene.
func DefaultSceneOptions() SceneOptions {
	return SceneOptions{
		Width:          1000,
		Height:         1000,
		MinMagnets:     2,
		MaxMagnets:     15,
		MagnetMargin:   100,
		RingRadius:     250,
		RingSamples:    360,
		VelocityJitter: 0.5,
	}
}

// Scene is the randomized starting state of one image. Magnets are shared
// read-only; particles are owned by the simulation that runs the scene.
type Scene struct {
	Magnets   []Magnet
	Particles []*Particle
}

// NewRand returns a random source for seed. A zero seed is replaced with
// the current time; the seed actually used is returned so a run can be
// reproduced.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// NewScene seeds magnets and ring particles from rng. All draws come from
// rng in a fixed order, so equal seeds give equal scenes.
func NewScene(opts SceneOptions, rng *rand.Rand) *Scene {
	count := opts.MinMagnets
	if span := opts.MaxMagnets - opts.MinMagnets; span > 0 {
		count += rng.Intn(span + 1)
	}

	magnets := make([]Magnet, count)
	for i := range magnets {
		x := opts.MagnetMargin + rng.Float64()*(opts.Width-2*opts.MagnetMargin)
		y := opts.MagnetMargin + rng.Float64()*(opts.Height-2*opts.MagnetMargin)
		polarity := 1.0
		if rng.Intn(2) == 0 {
			polarity = -1.0
		}
		magnets[i] = Magnet{Pos: r2.Vec{X: x, Y: y}, Polarity: polarity}
	}

	// Always drawn so the wobble setting does not shift later draws.
	noise := perlin.NewPerlin(wobbleAlpha, wobbleBeta, wobbleOcts, rng.Int63())

	center := r2.Vec{X: opts.Width / 2, Y: opts.Height / 2}
	particles := make([]*Particle, opts.RingSamples)
	for i := range particles {
		theta := 2 * math.Pi * float64(i) / float64(opts.RingSamples)
		cos, sin := math.Cos(theta), math.Sin(theta)
		radius := opts.RingRadius
		if opts.RingWobble > 0 {
			radius += opts.RingWobble * noise.Noise2D(cos*wobbleFreq, sin*wobbleFreq)
		}
		pos := r2.Add(center, r2.Vec{X: radius * cos, Y: radius * sin})
		vel := r2.Vec{
			X: (rng.Float64()*2 - 1) * opts.VelocityJitter,
			Y: (rng.Float64()*2 - 1) * opts.VelocityJitter,
		}
		particles[i] = NewParticle(pos, vel)
	}

	return &Scene{Magnets: magnets, Particles: particles}
}

// Validate checks the preconditions of a run: at least one magnet and
// finite coordinates everywhere.
func (sc *Scene) Validate() error {
	if len(sc.Magnets) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScene, ErrNoMagnets)
	}
	for i, m := range sc.Magnets {
		if !finite(m.Pos) || math.IsNaN(m.Polarity) || math.IsInf(m.Polarity, 0) {
			return fmt.Errorf("%w: magnet %d: %w", ErrInvalidScene, i, ErrNonFinite)
		}
	}
	for i, p := range sc.Particles {
		if p == nil {
			return fmt.Errorf("%w: particle %d is nil", ErrInvalidScene, i)
		}
		if !finite(p.Pos) || !finite(p.Vel) || !finite(p.Last) {
			return fmt.Errorf("%w: particle %d: %w", ErrInvalidScene, i, ErrNonFinite)
		}
	}
	return nil
}
