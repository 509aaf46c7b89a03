// Package sim moves particles through the field of a few fixed magnets and
// emits their trails as line segments.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

// Simulation constants
const (
	DefaultSteps     = 1000
	DefaultEmitEvery = 8
)

// ErrInvalidOptions wraps every options precondition failure.
var ErrInvalidOptions = errors.New("sim: invalid options")

// Segment is one stroke of a particle trail in canvas space.
type Segment struct {
	From, To r2.Vec
}

// Renderer receives finished segments.
type Renderer interface {
	DrawSegment(seg Segment) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(seg Segment) error

// DrawSegment calls f(seg).
func (f RendererFunc) DrawSegment(seg Segment) error { return f(seg) }

// Options configures the integration loop.
type Options struct {
	Bounds    Bounds
	Steps     int
	EmitEvery int
	Damping   float64
	Gain      float64
	// Workers is the number of particles integrated at once. Output order
	// does not depend on it.
	Workers int
}

// DefaultOptions returns the stock loop for a 1000x1000 canvas with a 50px
// border.
func DefaultOptions() Options {
	return Options{
		Bounds:    Bounds{Width: 1000, Height: 1000, Border: 50},
		Steps:     DefaultSteps,
		EmitEvery: DefaultEmitEvery,
		Damping:   DefaultDamping,
		Gain:      DefaultGain,
		Workers:   1,
	}
}

// Validate checks the loop parameters.
func (o Options) Validate() error {
	switch {
	case o.Steps <= 0:
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidOptions, o.Steps)
	case o.EmitEvery <= 0:
		return fmt.Errorf("%w: emit interval must be positive, got %d", ErrInvalidOptions, o.EmitEvery)
	case o.Bounds.Width <= 0 || o.Bounds.Height <= 0:
		return fmt.Errorf("%w: canvas must have a positive size", ErrInvalidOptions)
	}
	return nil
}

// Stats summarizes a run.
type Stats struct {
	Particles  int
	Segments   int
	Suppressed int
	Duration   time.Duration
}

func (s *Stats) add(o Stats) {
	s.Segments += o.Segments
	s.Suppressed += o.Suppressed
}

// Simulation runs one scene to completion.
type Simulation struct {
	opts   Options
	scene  *Scene
	logger *zap.Logger
}

// NewSimulation validates the scene and options before anything moves.
func NewSimulation(scene *Scene, opts Options, logger *zap.Logger) (*Simulation, error) {
	if scene == nil {
		return nil, fmt.Errorf("%w: nil scene", ErrInvalidScene)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulation{opts: opts, scene: scene, logger: logger.Named("sim")}, nil
}

// Scene returns the scene being run.
func (s *Simulation) Scene() *Scene { return s.scene }

// Run integrates every particle for the full step budget and hands the
// emitted segments to r, particle by particle. Run mutates the scene's
// particles, so a Simulation is run once.
func (s *Simulation) Run(ctx context.Context, r Renderer) (Stats, error) {
	start := time.Now()
	stats := Stats{Particles: len(s.scene.Particles)}

	s.logger.Debug("Starting run",
		zap.Int("magnets", len(s.scene.Magnets)),
		zap.Int("particles", stats.Particles),
		zap.Int("steps", s.opts.Steps),
		zap.Int("workers", s.opts.Workers))

	var err error
	if s.opts.Workers == 1 {
		err = s.runSequential(ctx, r, &stats)
	} else {
		err = s.runParallel(ctx, r, &stats)
	}
	stats.Duration = time.Since(start)
	if err != nil {
		return stats, err
	}

	s.logger.Info("Run complete",
		zap.Int("segments", stats.Segments),
		zap.Int("suppressed", stats.Suppressed),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

func (s *Simulation) runSequential(ctx context.Context, r Renderer, stats *Stats) error {
	for i, p := range s.scene.Particles {
		st, err := s.runParticle(ctx, p, r.DrawSegment)
		stats.add(st)
		if err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
	}
	return nil
}

// runParallel integrates particles on a bounded pool. Each particle fills
// its own buffer; buffers are flushed in particle order afterwards.
func (s *Simulation) runParallel(ctx context.Context, r Renderer, stats *Stats) error {
	particles := s.scene.Particles
	buffers := make([][]Segment, len(particles))
	partial := make([]Stats, len(particles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, p := range particles {
		i, p := i, p // per-iteration copies (go directive < 1.22)
		g.Go(func() error {
			buf := make([]Segment, 0, s.opts.Steps/s.opts.EmitEvery)
			st, err := s.runParticle(gctx, p, func(seg Segment) error {
				buf = append(buf, seg)
				return nil
			})
			buffers[i] = buf
			partial[i] = st
			if err != nil {
				return fmt.Errorf("particle %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, buf := range buffers {
		stats.add(partial[i])
		for _, seg := range buf {
			if err := r.DrawSegment(seg); err != nil {
				return fmt.Errorf("particle %d: render: %w", i, err)
			}
		}
	}
	return nil
}

// runParticle is the per-particle loop: rebuild the force, integrate, gate
// on the border, and every EmitEvery steps emit the open segment.
func (s *Simulation) runParticle(ctx context.Context, p *Particle, emit func(Segment) error) (Stats, error) {
	var st Stats
	for step := 1; step <= s.opts.Steps; step++ {
		if err := p.ApplyField(s.scene.Magnets, s.opts.Gain); err != nil {
			return st, err
		}
		p.Integrate(s.opts.Damping)
		p.CheckBounds(s.opts.Bounds)

		if step%s.opts.EmitEvery != 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if !finite(p.Pos) {
			return st, fmt.Errorf("step %d: %w", step, ErrNonFinite)
		}
		if !p.Visible {
			st.Suppressed++
			continue
		}
		if err := emit(p.Trail()); err != nil {
			return st, fmt.Errorf("render: %w", err)
		}
		p.Anchor()
		st.Segments++
	}
	return st, nil
}
