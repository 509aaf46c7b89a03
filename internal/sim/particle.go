package sim

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultDamping is the per-step velocity decay.
const DefaultDamping = 0.9

// Particle is a point whose path becomes a line. Last anchors the open
// trail segment and only moves when a segment has been emitted.
type Particle struct {
	Pos     r2.Vec
	Vel     r2.Vec
	Force   r2.Vec
	Last    r2.Vec
	Visible bool
}

// NewParticle creates a particle at pos anchored to its own position.
func NewParticle(pos, vel r2.Vec) *Particle {
	return &Particle{
		Pos:     pos,
		Vel:     vel,
		Last:    pos,
		Visible: true,
	}
}

// ResetForce clears the accumulated force.
func (p *Particle) ResetForce() {
	p.Force = r2.Vec{}
}

// AccumulateForce adds f to the accumulated force.
func (p *Particle) AccumulateForce(f r2.Vec) {
	p.Force = r2.Add(p.Force, f)
}

// ApplyField rebuilds Force from scratch as the mean contribution of all
// magnets. Nothing from the previous step survives.
func (p *Particle) ApplyField(magnets []Magnet, gain float64) error {
	if len(magnets) == 0 {
		return ErrNoMagnets
	}
	p.ResetForce()
	for _, m := range magnets {
		p.AccumulateForce(Contribution(p.Pos, m.Pos, m.Polarity*gain))
	}
	n := float64(len(magnets))
	p.Force = r2.Vec{X: p.Force.X / n, Y: p.Force.Y / n}
	return nil
}

// Integrate damps the velocity and moves the particle. Force is a position
// delta here, not an acceleration.
func (p *Particle) Integrate(damping float64) {
	p.Vel = r2.Vec{X: p.Vel.X * damping, Y: p.Vel.Y * damping}
	p.Pos = r2.Add(r2.Add(p.Pos, p.Vel), p.Force)
}

// CheckBounds recomputes Visible from the current position alone.
func (p *Particle) CheckBounds(b Bounds) bool {
	p.Visible = b.Contains(p.Pos)
	return p.Visible
}

// Trail returns the open segment from the anchor to the current position.
func (p *Particle) Trail() Segment {
	return Segment{From: p.Last, To: p.Pos}
}

// Anchor starts the next segment at the current position.
func (p *Particle) Anchor() {
	p.Last = p.Pos
}

// Speed returns the magnitude of the velocity.
func (p *Particle) Speed() float64 {
	return r2.Norm(p.Vel)
}
