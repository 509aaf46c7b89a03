// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/olivierh59500/magnet-art/internal/config"
	"github.com/olivierh59500/magnet-art/internal/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app carries the state shared by every subcommand of one root command.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

// newRootCmd builds the command tree around v. Each call returns an
// independent tree, which keeps tests isolated.
func newRootCmd(v *viper.Viper) *cobra.Command {
	a := &app{v: v}
	config.SetDefaults(v)

	rootCmd := &cobra.Command{
		Use:           "magnet-art",
		Short:         "magnet-art draws particle trails bent by random magnets.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initializeConfig(); err != nil {
				return err
			}
			cfg, err := config.NewConfigFromViper(a.v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "magnet-art"})
				return err
			}
			a.cfg = cfg
			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting magnet-art", zap.String("version", Version))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	flags.Int64("seed", 0, "random seed; 0 seeds from the clock")
	flags.Int("steps", 1000, "integration steps per particle")
	flags.Int("workers", 1, "particles integrated concurrently")
	flags.Int("width", 1000, "canvas width in pixels")
	flags.Int("height", 1000, "canvas height in pixels")
	mustBind(v, "scene.seed", flags.Lookup("seed"))
	mustBind(v, "sim.steps", flags.Lookup("steps"))
	mustBind(v, "sim.workers", flags.Lookup("workers"))
	mustBind(v, "canvas.width", flags.Lookup("width"))
	mustBind(v, "canvas.height", flags.Lookup("height"))

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newViewCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		observability.Sync()
		stop()
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

// initializeConfig reads in the config file and MAGNET_* environment
// variables.
func (a *app) initializeConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("MAGNET")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag for %s: %v", key, err))
	}
}
