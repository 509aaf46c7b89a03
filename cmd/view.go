package cmd

import (
	"fmt"

	"github.com/olivierh59500/magnet-art/internal/observability"
	"github.com/olivierh59500/magnet-art/internal/render"
	"github.com/olivierh59500/magnet-art/internal/viewer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newViewCmd creates the `view` command. It runs one scene to completion
// and shows the result; nothing is written to disk.
func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Render one image and show it in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			logger := observability.GetLogger().Named("view")
			style, err := renderStyle(cfg)
			if err != nil {
				return err
			}

			rec := &render.Recorder{}
			res, err := simulate(cmd.Context(), cfg, cfg.Scene.Seed, rec, logger)
			if err != nil {
				return err
			}
			logger.Info("Scene ready",
				zap.Int64("seed", res.Seed),
				zap.Int("segments", res.Stats.Segments))

			title := fmt.Sprintf("magnet-art (seed %d)", res.Seed)
			return viewer.Run(viewer.New(cfg.Canvas.Width, cfg.Canvas.Height, rec.Segments(), style), title)
		},
	}
}
