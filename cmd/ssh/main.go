package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/panjf2000/ants/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tomz197/flappy/internal/config"
	"github.com/tomz197/flappy/internal/draw"
	"github.com/tomz197/flappy/internal/loop/client"
	"github.com/tomz197/flappy/internal/loop/server"
	"github.com/tomz197/flappy/internal/score"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultBestDir     = "/app/data/best"
)

// app holds what every SSH session shares.
type app struct {
	hub     *server.Server
	cfg     config.Config
	pool    *ants.Pool
	rdb     *redis.Client // nil when best scores live in files
	bestDir string
	logger  *log.Logger
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy-ssh",
	})
	if err := run(logger); err != nil {
		logger.Fatal("server failed", "err", err)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	redisAddr := config.GetEnv("REDIS_ADDR", "")
	configPath := config.GetEnv("FLAPPY_CONFIG", "")
	workers := config.GetEnvInt("STORE_WORKERS", config.StoreWorkers)
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath, "redis", redisAddr != "")

	a := &app{
		cfg:     config.Default(),
		bestDir: config.GetEnv("BEST_DIR", defaultBestDir),
		logger:  logger,
	}
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	pool, err := score.NewStorePool(workers, logger)
	if err != nil {
		return err
	}
	defer pool.Release()
	a.pool = pool

	hubOpts := server.Options{Logger: logger}
	if redisAddr != "" {
		a.rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
		defer a.rdb.Close()
		hubOpts.Leaderboard = score.NewLeaderboard(a.rdb, a.cfg.BestKey)
	}

	// Shared hub for all SSH clients
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	a.hub = server.NewServer(hubOpts)
	go a.hub.Run(hubCtx)
	logger.Info("game hub started")

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("shutting down server")

	// Notify players and wait for them to disconnect
	logger.Info("notifying connected players about shutdown")
	a.hub.Shutdown(config.ShutdownTimeout)
	cancelHub()
	logger.Info("game hub stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// gameMiddleware handles SSH sessions and runs the game client.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		username := sanitizeUsername(sess.User())
		a.logger.Info("new game session", "user", username, "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		store := score.NewAsyncStore(a.storeFor(username), a.pool, config.StoreWriteTimeout, a.logger)
		defer func() {
			if err := store.Close(); err != nil {
				a.logger.Warn("closing best score store", "user", username, "err", err)
			}
		}()

		cfg := a.cfg
		c := client.NewClient(a.hub, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     username,
			Config:       &cfg,
			Store:        store,
			Logger:       a.logger,
		})
		// Persistence outlives the connection so the last best score is written.
		if err := c.Run(context.WithoutCancel(sess.Context())); err != nil {
			a.logger.Error("game error", "user", username, "err", err)
		}

		a.logger.Info("session ended", "user", username)
		next(sess)
	}
}

// storeFor returns the best score store of one player.
func (a *app) storeFor(username string) score.Store {
	if a.rdb != nil {
		return score.NewRedisStore(a.rdb, username)
	}
	return score.NewFileStore(filepath.Join(a.bestDir, username+".yaml"))
}

// sanitizeUsername keeps letters, digits, '-' and '_' so the name is safe as a
// file name and a Redis key, and truncates it for display.
func sanitizeUsername(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= config.MaxUsernameLength {
			break
		}
	}
	if b.Len() == 0 {
		return "player"
	}
	return b.String()
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
