package score

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/panjf2000/ants/v2"
)

// AsyncStore moves writes of a slow Store onto a worker pool so the frame
// loop never waits on disk or network. Reads see pending writes immediately.
type AsyncStore struct {
	inner   Store
	pool    *ants.Pool
	timeout time.Duration
	logger  *log.Logger

	mu      sync.Mutex
	pending map[string]int
	seq     uint64
	closed  bool
	wg      sync.WaitGroup

	// writeMu orders writes that reach inner; a write older than the last
	// one applied to the same key is dropped.
	writeMu sync.Mutex
	applied map[string]uint64
}

// NewAsyncStore wraps inner. The pool is shared and is not released by Close.
func NewAsyncStore(inner Store, pool *ants.Pool, timeout time.Duration, logger *log.Logger) *AsyncStore {
	if logger == nil {
		logger = log.Default()
	}
	return &AsyncStore{
		inner:   inner,
		pool:    pool,
		timeout: timeout,
		logger:  logger,
		pending: make(map[string]int),
		applied: make(map[string]uint64),
	}
}

// NewStorePool creates the worker pool used by AsyncStore writers.
func NewStorePool(size int, logger *log.Logger) (*ants.Pool, error) {
	if logger == nil {
		logger = log.Default()
	}
	pool, err := ants.NewPool(size,
		ants.WithPreAlloc(true),
		ants.WithPanicHandler(func(p interface{}) {
			logger.Error("store worker panic", "panic", p)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create store pool: %w", err)
	}
	return pool, nil
}

func (a *AsyncStore) Int(ctx context.Context, key string) (int, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return 0, ErrClosed
	}
	if v, ok := a.pending[key]; ok {
		a.mu.Unlock()
		return v, nil
	}
	a.mu.Unlock()
	return a.inner.Int(ctx, key)
}

// SetInt queues the write and returns once the pool accepts it.
// Write failures are logged, not returned.
func (a *AsyncStore) SetInt(_ context.Context, key string, value int) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.seq++
	seq := a.seq
	a.pending[key] = value
	a.wg.Add(1)
	a.mu.Unlock()

	err := a.pool.Submit(func() {
		defer a.wg.Done()
		a.write(key, value, seq)
	})
	if err != nil {
		a.wg.Done()
		a.settle(key, value)
		return fmt.Errorf("queue write %s: %w", key, err)
	}
	return nil
}

func (a *AsyncStore) write(key string, value int, seq uint64) {
	defer a.settle(key, value)

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	if a.applied[key] > seq {
		return
	}
	a.applied[key] = seq

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.inner.SetInt(ctx, key, value); err != nil {
		a.logger.Warn("persist score", "key", key, "value", value, "err", err)
	}
}

// settle drops the pending entry unless a newer value replaced it.
func (a *AsyncStore) settle(key string, value int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if v, ok := a.pending[key]; ok && v == value {
		delete(a.pending, key)
	}
}

// Close waits for queued writes and closes the wrapped store.
func (a *AsyncStore) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	a.wg.Wait()
	return a.inner.Close()
}
