package score

import (
	"context"

	"github.com/charmbracelet/log"
)

// Board tracks one run's gate score and coin score against the persisted best.
type Board struct {
	store  Store
	key    string
	logger *log.Logger

	score     int
	itemScore int
	best      int
}

// NewBoard keeps the best score under key in store. A nil store keeps it in memory.
func NewBoard(store Store, key string, logger *log.Logger) *Board {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Board{store: store, key: key, logger: logger}
}

// Load reads the persisted best score. On failure the best stays at 0.
func (b *Board) Load(ctx context.Context) error {
	best, err := b.store.Int(ctx, b.key)
	if err != nil {
		return err
	}
	if best < 0 {
		best = 0
	}
	b.best = best
	return nil
}

// Pass counts a wall gate. It reports whether the best score was beaten.
func (b *Board) Pass(ctx context.Context) bool {
	b.score++
	return b.updateBest(ctx)
}

// Collect counts a coin. It reports whether the best score was beaten.
func (b *Board) Collect(ctx context.Context) bool {
	b.itemScore++
	return b.updateBest(ctx)
}

func (b *Board) updateBest(ctx context.Context) bool {
	total := b.Total()
	if total <= b.best {
		return false
	}
	b.best = total
	if err := b.store.SetInt(ctx, b.key, total); err != nil {
		b.logger.Warn("save best score", "best", total, "err", err)
	}
	return true
}

// Reset zeroes the run counters. The best score is kept.
func (b *Board) Reset() {
	b.score = 0
	b.itemScore = 0
}

func (b *Board) Score() int     { return b.score }
func (b *Board) ItemScore() int { return b.itemScore }
func (b *Board) Best() int      { return b.best }

// Total is the value compared against the best score.
func (b *Board) Total() int {
	return b.score + b.itemScore
}
