package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/tomz197/flappy/internal/config"
	"github.com/tomz197/flappy/internal/score"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

// topSource is the ranking served on /leaderboard.
type topSource interface {
	Top(ctx context.Context, n int) ([]score.Entry, error)
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy-web",
	})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	redisAddr := config.GetEnv("REDIS_ADDR", "")

	var board topSource
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()
		board = score.NewLeaderboard(rdb, config.GetEnv("BEST_KEY", config.Default().BestKey))
	}

	addr := fmt.Sprintf("%s:%s", host, port)
	logger.Info("starting web server", "url", "http://"+addr, "leaderboard", board != nil)
	if err := http.ListenAndServe(addr, newMux(sshHost, board, logger)); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// newMux serves the landing page and the leaderboard. board may be nil, in
// which case the leaderboard is empty.
func newMux(sshHost string, board topSource, logger *log.Logger) *http.ServeMux {
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		entries := []score.Entry{}
		if board != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			top, err := board.Top(ctx, config.TopScoresCount)
			if err != nil {
				logger.Warn("leaderboard read failed", "err", err)
				http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
				return
			}
			entries = append(entries, top...)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			logger.Warn("leaderboard encode failed", "err", err)
		}
	})
	return mux
}
