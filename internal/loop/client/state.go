package client

import (
	"time"

	"github.com/tomz197/flappy/internal/draw"
	"github.com/tomz197/flappy/internal/input"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Scene running, including the game-over roll
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-session state. Each client has its own instance,
// managed by the Client.
type ClientState struct {
	Input         input.Input
	GameState     GameState
	Paused        bool
	presented     bool // Scene has been built and shown
	Muted         bool
	Running       bool              // Client loop running
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	delta         time.Duration     // Frame delta time
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state
	reportedBest  int               // Last best score sent to the hub

	// Previous-frame values used to detect transitions that need a full clear
	prevGameState GameState
	wasInactive   bool
	wasPaused     bool
	wasGameOver   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
