package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/flappy/internal/config"
	"github.com/tomz197/flappy/internal/score"
)

// leaderboardRefresh is how often the persistent leaderboard is re-read.
const leaderboardRefresh = 5 * time.Second

// GameServer is the interface clients use to communicate with the hub.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportBest(clientID int, best int)
	GetSnapshot() *Snapshot
}

// Leaderboard is a persistent ranking shared by every process, such as the
// Redis sorted set behind score.Leaderboard.
type Leaderboard interface {
	Top(ctx context.Context, n int) ([]score.Entry, error)
}

// Server tracks the sessions of one process. Every session runs its own
// scene; the hub only aggregates who is connected and their best scores.
type Server struct {
	snapshot     atomic.Pointer[Snapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	unregisterCh chan int
	mu           sync.RWMutex

	bests       map[string]int // Best score per username reported during this run
	leaderboard Leaderboard
	remoteTop   []score.Entry
	fetchedAt   time.Time
	logger      *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID        int
	SessionID uuid.UUID // Unique per connection, used to correlate logs
	Username  string
	Best      int
	EventsCh  chan ClientEvent
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// Options configures the hub. Leaderboard may be nil.
type Options struct {
	Leaderboard Leaderboard
	Logger      *log.Logger
}

// NewServer creates a new hub.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		unregisterCh: make(chan int, 16),
		bests:        make(map[string]int),
		leaderboard:  opts.Leaderboard,
		logger:       logger,
	}

	// Create initial empty snapshot
	s.snapshot.Store(&Snapshot{})
	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		s.tick(ctx, frameStart)

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// tick runs one hub frame.
func (s *Server) tick(ctx context.Context, now time.Time) {
	s.processUnregistrations()
	s.refreshLeaderboard(ctx, now)
	s.createSnapshot()
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns
// its handle. The client is known to the hub immediately, so best scores can
// be reported right away.
func (s *Server) RegisterClient(username string) *ClientHandle {
	handle := &ClientHandle{
		SessionID: uuid.New(),
		Username:  username,
		EventsCh:  make(chan ClientEvent, 16),
	}

	s.mu.Lock()
	handle.ID = s.nextClientID
	s.nextClientID++
	s.clients[handle.ID] = handle
	s.mu.Unlock()

	s.logger.Info("session joined", "user", username, "session", handle.SessionID)
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// ReportBest records a session's best score. It shows up on the leaderboard
// with the next snapshot.
func (s *Server) ReportBest(clientID int, best int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok || best <= handle.Best {
		return
	}
	handle.Best = best
	if best > s.bests[handle.Username] {
		s.bests[handle.Username] = best
	}
}

// GetSnapshot returns the current snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// processUnregistrations handles pending client unregistrations.
func (s *Server) processUnregistrations() {
	for {
		select {
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			handle, ok := s.clients[clientID]
			if ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
			}
			s.mu.Unlock()
			if ok {
				s.logger.Info("session left", "user", handle.Username, "session", handle.SessionID, "best", handle.Best)
			}
		default:
			return
		}
	}
}

// refreshLeaderboard re-reads the persistent leaderboard when it is stale.
// A failed read keeps the previous entries.
func (s *Server) refreshLeaderboard(ctx context.Context, now time.Time) {
	if s.leaderboard == nil || now.Sub(s.fetchedAt) < leaderboardRefresh {
		return
	}
	s.fetchedAt = now

	ctx, cancel := context.WithTimeout(ctx, config.StoreWriteTimeout)
	defer cancel()
	top, err := s.leaderboard.Top(ctx, config.TopScoresCount)
	if err != nil {
		s.logger.Warn("leaderboard read failed", "err", err)
		return
	}
	s.remoteTop = top
}

// createSnapshot publishes a new immutable snapshot.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.snapshot.Store(&Snapshot{
		Players:   len(s.clients),
		TopScores: mergeTopScores(s.bests, s.remoteTop, config.TopScoresCount),
	})
}
