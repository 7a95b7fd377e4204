package config

import "time"

// Max render resolution in terminal cells. Larger terminals get a centered,
// bordered play area.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
	TopScoresCount    = 5  // Entries shown on the title screen leaderboard
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownTimeout        = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Hub tick rate. The hub only aggregates sessions and scores, so it runs
// far slower than the clients.
const (
	ServerTickRate = 10
	ServerTickTime = time.Second / ServerTickRate
)

// Persistence
const (
	StoreWorkers      = 8
	StoreWriteTimeout = 2 * time.Second
)
