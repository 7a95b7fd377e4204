package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tomz197/flappy/internal/audio"
	"github.com/tomz197/flappy/internal/config"
	"github.com/tomz197/flappy/internal/loop/client"
	"github.com/tomz197/flappy/internal/loop/server"
	"github.com/tomz197/flappy/internal/score"
)

type options struct {
	configPath string
	bestFile   string
	logFile    string
	logLevel   string
	mute       bool
	seed       int64
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:   "flappy",
		Short: "Play flappy in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML file overriding the scene tunables")
	cmd.Flags().StringVar(&opts.bestFile, "best-file", defaultBestFile(), "file the best score is kept in")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file (default: no logs)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.mute, "mute", false, "start without sound")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed for wall and coin placement (0 = clock)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// defaultBestFile is the best score file under the user's config directory.
func defaultBestFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "flappy-best.yaml"
	}
	return filepath.Join(dir, "flappy", "best.yaml")
}

func run(ctx context.Context, opts options) error {
	logger, closeLog, err := newLogger(opts.logFile, opts.logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

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

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	hub := server.NewServer(server.Options{Logger: logger})
	go hub.Run(ctx)

	c := client.NewClient(hub, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: localUsername(),
		Config:   &cfg,
		Store:    store,
		Sound:    sound,
		Logger:   logger,
		Seed:     opts.seed,
	})
	if err := c.Run(ctx); err != nil {
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}

// newLogger logs to path, or nowhere when path is empty, so the game screen
// stays clean.
func newLogger(path, level string) (*log.Logger, func(), error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy",
		Level:           lvl,
	})
	return logger, closeFn, nil
}

func localUsername() string {
	if u := config.GetEnv("USER", ""); u != "" {
		return u
	}
	return "player"
}
