package client

import (
	"fmt"
	"time"

	"github.com/tomz197/flappy/internal/config"
	"github.com/tomz197/flappy/internal/draw"
	"github.com/tomz197/flappy/internal/loop/server"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On state transitions do a full terminal clear so UI elements from the
	// previous state don't persist on screen.
	gameOver := c.state.GameState == GameStatePlaying && c.scene.IsGameOver()
	if c.state.GameState != c.state.prevGameState ||
		c.state.isInactive != c.state.wasInactive ||
		c.state.Paused != c.state.wasPaused ||
		gameOver != c.state.wasGameOver {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.wasPaused = c.state.Paused
		c.state.wasGameOver = gameOver
	}

	if !c.state.presented {
		c.drawables = c.drawables[:0]
		c.drawBackdrop()
	} else {
		c.drawScene()
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawLabels()
	c.drawUI(c.server.GetSnapshot())

	return c.chunkWriter.Flush()
}

// drawUI draws the UI overlay.
func (c *Client) drawUI(snapshot *server.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(centerX, centerY, snapshot)
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snapshot)
		switch {
		case c.scene.IsGameOver():
			c.drawGameOverScreen(centerX, centerY)
		case c.state.Paused:
			c.drawPausedScreen(centerX, centerY)
		}
	}
}

// writeCentered writes s centred on centerX as plain text on the overlay
// colours and marks the cells for repaint.
func (c *Client) writeCentered(centerX, row int, s string) {
	col := centerX - len([]rune(s))/2
	if col < 1 {
		col = 1
	}
	c.chunkWriter.WriteStyledAt(col, row, s, draw.Text, draw.TextShade)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// titleArt is "FLAPPY" in the figlet small font.
var titleArt = []string{
	`  ___ _      _   ___ ___ __   __ `,
	` | __| |    /_\ | _ \ _ \\ \ / / `,
	` | _|| |__ / _ \|  _/  _/ \ V /  `,
	` |_| |____/_/ \_\_| |_|    |_|   `,
}

// gameOverArt is "GAME OVER" in the figlet small font.
var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// drawStartScreen draws the title screen with the leaderboard.
func (c *Client) drawStartScreen(centerX, centerY int, snapshot *server.Snapshot) {
	titleStartY := centerY - 10
	for i, line := range titleArt {
		c.writeCentered(centerX, titleStartY+i, line)
	}

	c.writeCentered(centerX, titleStartY+len(titleArt)+1, "~ Flap through the gaps, grab the coins ~")

	controlsY := titleStartY + len(titleArt) + 3
	c.writeCentered(centerX, controlsY, "Controls")
	controlLines := []string{
		"SPACE / W / Click . Flap",
		"P  . . . . . . . . Pause",
		"M  . . . . . . . .  Mute",
		"Q  . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		c.writeCentered(centerX, controlsY+1+i, line)
	}

	boardY := controlsY + len(controlLines) + 2
	c.writeCentered(centerX, boardY, "Top Scores")
	if len(snapshot.TopScores) == 0 {
		c.writeCentered(centerX, boardY+1, "no scores yet")
	}
	for i, entry := range snapshot.TopScores {
		c.writeCentered(centerX, boardY+1+i, formatTopScore(i+1, entry))
	}

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, boardY+config.TopScoresCount+2, ">>  Press SPACE to Start  <<")
	}
}

// formatTopScore renders one leaderboard row with a fixed width.
func formatTopScore(rank int, entry server.TopScoreEntry) string {
	name := []rune(entry.Username)
	if len(name) > config.MaxUsernameLength {
		name = name[:config.MaxUsernameLength]
	}
	return fmt.Sprintf("%d. %-*s %6d", rank, config.MaxUsernameLength, string(name), entry.Score)
}

// drawPlayingHUD draws session info that is not part of the scene.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snapshot *server.Snapshot) {
	players := fmt.Sprintf("Players: %-4d", snapshot.Players)
	col := termWidth - len(players) - 1
	c.chunkWriter.WriteStyledAt(col, termHeight, players, draw.Text, draw.TextShade)
	c.canvas.MarkTextDirty(col, termHeight, len(players))

	if c.state.Muted {
		c.chunkWriter.WriteStyledAt(2, termHeight, "muted", draw.Text, draw.TextShade)
		c.canvas.MarkTextDirty(2, termHeight, len("muted"))
	}
}

// drawGameOverScreen draws the game-over overlay. The restart prompt appears
// once the death roll has finished.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	titleStartY := centerY - 5
	for i, line := range gameOverArt {
		c.writeCentered(centerX, titleStartY+i, line)
	}

	result := fmt.Sprintf("Score: %d   Coins: %d   Best: %d", c.scene.Score(), c.scene.ItemScore(), c.scene.BestScore())
	c.writeCentered(centerX, titleStartY+len(gameOverArt)+1, result)

	if c.scene.CanRestart() && time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, titleStartY+len(gameOverArt)+3, ">>  Press SPACE to Restart  <<")
	}
}

// drawPausedScreen draws the pause overlay.
func (c *Client) drawPausedScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY, "PAUSED")
	c.writeCentered(centerX, centerY+2, "Press P to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
