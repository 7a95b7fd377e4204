package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/flappy/internal/audio"
	"github.com/tomz197/flappy/internal/config"
	"github.com/tomz197/flappy/internal/draw"
	"github.com/tomz197/flappy/internal/input"
	"github.com/tomz197/flappy/internal/loop/server"
	"github.com/tomz197/flappy/internal/object"
	"github.com/tomz197/flappy/internal/scene"
	"github.com/tomz197/flappy/internal/score"
)

// maxFrameStep caps the simulated time of one frame so a stalled connection
// does not move the bird through a wall.
const maxFrameStep = 0.1

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	scene        *scene.GameScene
	sound        audio.Player
	logger       *log.Logger
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	drawables    []object.Drawable // Reused every frame
}

// ClientOptions configures the client. Zero values are usable.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Config       *config.Config // Scene tunables, config.Default() when nil
	Store        score.Store    // Best score persistence, in memory when nil
	Sound        audio.Player   // Silent when nil
	Logger       *log.Logger
	Seed         int64
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	sound := opts.Sound
	if sound == nil {
		sound = audio.Silent{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	handle := gs.RegisterClient(opts.Username)
	logger = logger.With("user", opts.Username, "session", handle.SessionID)

	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, cfg.Frame.Width, cfg.Frame.Height)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	gameScene := scene.New(cfg, scene.Options{
		Store:  opts.Store,
		Sound:  sound,
		Logger: logger,
		Seed:   opts.Seed,
	})

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		scene:        gameScene,
		sound:        sound,
		logger:       logger,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		reader:       r,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
	}
}

// Run starts the client loop. Blocks until the client disconnects, the
// server stops or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		if ctx.Err() != nil {
			break
		}

		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		// Handle game state
		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState(ctx)
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		// Draw frame
		if err := c.drawFrame(); err != nil {
			c.server.UnregisterClient(c.handle.ID)
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	// Unregister from server
	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and applies the session-wide keys.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive session")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}

	if c.state.Input.Mute {
		c.state.Muted = c.sound.ToggleMute()
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState handles the title screen.
func (c *Client) updateStartState(ctx context.Context) {
	if c.state.Input.Tapped() {
		c.startGame(ctx)
	}
}

// startGame presents the scene. The scene builds itself on first
// presentation and loads the stored best score.
func (c *Client) startGame(ctx context.Context) {
	input.ResetKeyInput(c.inputStream)
	c.scene.DidMove(ctx)
	c.state.presented = true
	c.reportBest()
	c.state.GameState = GameStatePlaying
	c.state.Paused = false
}

// updatePlayingState forwards taps to the scene and steps it.
func (c *Client) updatePlayingState() {
	if c.state.Input.Pause && !c.scene.IsGameOver() {
		c.state.Paused = !c.state.Paused
	}
	if c.state.Paused {
		return
	}

	for i := 0; i < c.state.Input.Tap; i++ {
		c.scene.TouchesBegan()
	}

	dt := c.state.delta.Seconds()
	if dt > maxFrameStep {
		dt = maxFrameStep
	}
	c.scene.Update(dt)
	c.reportBest()
}

// reportBest tells the hub about a new best score.
func (c *Client) reportBest() {
	if best := c.scene.BestScore(); best > c.state.reportedBest {
		c.state.reportedBest = best
		c.server.ReportBest(c.handle.ID, best)
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
