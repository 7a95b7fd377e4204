package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/tomz197/flappy/internal/audio"
	"github.com/tomz197/flappy/internal/config"
	"github.com/tomz197/flappy/internal/score"
	"github.com/tomz197/flappy/internal/window"
)

type options struct {
	configPath string
	bestFile   string
	logLevel   string
	scale      float64
	mute       bool
	seed       int64
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:   "flappy-window",
		Short: "Play flappy in a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML file overriding the scene tunables")
	cmd.Flags().StringVar(&opts.bestFile, "best-file", defaultBestFile(), "file the best score is kept in")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	cmd.Flags().Float64Var(&opts.scale, "scale", window.DefaultScale, "screen pixels per logical unit")
	cmd.Flags().BoolVar(&opts.mute, "mute", false, "start without sound")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed for wall and coin placement (0 = clock)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultBestFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "flappy-best.yaml"
	}
	return filepath.Join(dir, "flappy", "best.yaml")
}

func run(ctx context.Context, opts options) error {
	lvl, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy",
		Level:           lvl,
	})

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}

	pool, err := score.NewStorePool(config.StoreWorkers, logger)
	if err != nil {
		return err
	}
	defer pool.Release()
	store := score.NewAsyncStore(score.NewFileStore(opts.bestFile), pool, config.StoreWriteTimeout, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing best score store", "err", err)
		}
	}()

	var sound audio.Player = audio.Silent{}
	if !opts.mute {
		sm := audio.NewSoundManager(logger)
		if err := sm.Initialize(); err == nil {
			sound = sm
		}
	}
	defer sound.Close()

	game := window.New(ctx, window.Options{
		Config: &cfg,
		Store:  store,
		Sound:  sound,
		Logger: logger,
		Seed:   opts.seed,
		Scale:  opts.scale,
	})
	w, h := game.ScreenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("flappy")
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
