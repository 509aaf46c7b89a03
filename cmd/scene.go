package cmd

import (
	"context"
	"fmt"

	"github.com/olivierh59500/magnet-art/internal/config"
	"github.com/olivierh59500/magnet-art/internal/render"
	"github.com/olivierh59500/magnet-art/internal/sim"
	"go.uber.org/zap"
)

func sceneOptions(cfg *config.Config) sim.SceneOptions {
	return sim.SceneOptions{
		Width:          float64(cfg.Canvas.Width),
		Height:         float64(cfg.Canvas.Height),
		MinMagnets:     cfg.Scene.MinMagnets,
		MaxMagnets:     cfg.Scene.MaxMagnets,
		MagnetMargin:   cfg.Scene.MagnetMargin,
		RingRadius:     cfg.Scene.RingRadius,
		RingSamples:    cfg.Scene.RingSamples,
		RingWobble:     cfg.Scene.RingWobble,
		VelocityJitter: cfg.Scene.VelocityJitter,
	}
}

func simOptions(cfg *config.Config) sim.Options {
	return sim.Options{
		Bounds: sim.Bounds{
			Width:  float64(cfg.Canvas.Width),
			Height: float64(cfg.Canvas.Height),
			Border: cfg.Canvas.Border,
		},
		Steps:     cfg.Sim.Steps,
		EmitEvery: cfg.Sim.EmitEvery,
		Damping:   cfg.Sim.Damping,
		Gain:      cfg.Scene.Gain,
		Workers:   cfg.Sim.Workers,
	}
}

func renderStyle(cfg *config.Config) (render.Style, error) {
	return render.ParseStyle(cfg.Render.StrokeWidth, cfg.Render.StrokeColor, cfg.Render.Background)
}

// runResult describes one finished image.
type runResult struct {
	Seed    int64
	Magnets int
	Stats   sim.Stats
	Digest  string
}

// simulate seeds a scene from seed and runs it into r. Every segment is
// also recorded so the run can be fingerprinted.
func simulate(ctx context.Context, cfg *config.Config, seed int64, r sim.Renderer, logger *zap.Logger) (runResult, error) {
	rng, seed := sim.NewRand(seed)
	scene := sim.NewScene(sceneOptions(cfg), rng)
	logger = logger.With(zap.Int64("seed", seed))
	logger.Debug("Scene built",
		zap.Int("magnets", len(scene.Magnets)),
		zap.Int("particles", len(scene.Particles)))

	s, err := sim.NewSimulation(scene, simOptions(cfg), logger)
	if err != nil {
		return runResult{Seed: seed}, fmt.Errorf("seed %d: %w", seed, err)
	}

	rec := &render.Recorder{}
	stats, err := s.Run(ctx, render.Multi{r, rec})
	if err != nil {
		return runResult{Seed: seed}, fmt.Errorf("seed %d: %w", seed, err)
	}
	return runResult{
		Seed:    seed,
		Magnets: len(scene.Magnets),
		Stats:   stats,
		Digest:  rec.Digest(),
	}, nil
}
