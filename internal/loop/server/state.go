package server

import (
	"slices"
	"strings"

	"github.com/tomz197/flappy/internal/score"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
}

// Snapshot is an immutable view of the hub for rendering title screens and
// HUDs. Clients must not modify it.
type Snapshot struct {
	Players   int             // Connected sessions
	TopScores []TopScoreEntry // Best scores, highest first
}

// mergeTopScores combines best scores of this run with leaderboard entries
// and returns the n highest, one entry per username. Equal scores are ordered
// by username.
func mergeTopScores(local map[string]int, remote []score.Entry, n int) []TopScoreEntry {
	best := make(map[string]int, len(local)+len(remote))
	for name, v := range local {
		if v > 0 {
			best[name] = v
		}
	}
	for _, e := range remote {
		if e.Score > best[e.Player] {
			best[e.Player] = e.Score
		}
	}

	entries := make([]TopScoreEntry, 0, len(best))
	for name, v := range best {
		entries = append(entries, TopScoreEntry{Username: name, Score: v})
	}
	slices.SortFunc(entries, func(a, b TopScoreEntry) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(a.Username, b.Username)
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
