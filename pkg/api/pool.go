package api

import (
	"context"
	"sync/atomic"
	"time"
)

// lane is a counting semaphore with usage counters.
type lane struct {
	sem    chan struct{}
	queued atomic.Int64
	active atomic.Int64
	total  atomic.Int64
}

func newLane(size int) *lane {
	return &lane{sem: make(chan struct{}, size)}
}

func (l *lane) acquire(ctx context.Context) error {
	l.queued.Add(1)
	defer l.queued.Add(-1)

	select {
	case l.sem <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lane) tryAcquire() bool {
	select {
	case l.sem <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

func (l *lane) release() {
	l.active.Add(-1)
	l.total.Add(1)
	<-l.sem
}

// WorkerPool limits concurrent request processing. Cheap board operations
// (evaluate, moves, play) and searches (best, analyze, stream, WebSocket
// best) draw from separate lanes so a burst of deep searches cannot starve
// the cheap requests.
type WorkerPool struct {
	fast *lane
	slow *lane
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxFastWorkers int // Max concurrent board operations (default: 100)
	MaxSlowWorkers int // Max concurrent searches (default: 4)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxFastWorkers: 100,
		MaxSlowWorkers: 4,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	def := DefaultPoolConfig()
	if config.MaxFastWorkers <= 0 {
		config.MaxFastWorkers = def.MaxFastWorkers
	}
	if config.MaxSlowWorkers <= 0 {
		config.MaxSlowWorkers = def.MaxSlowWorkers
	}

	return &WorkerPool{
		fast: newLane(config.MaxFastWorkers),
		slow: newLane(config.MaxSlowWorkers),
	}
}

// AcquireFast acquires a slot for a board operation.
// Returns an error if the context is cancelled while waiting.
func (p *WorkerPool) AcquireFast(ctx context.Context) error {
	return p.fast.acquire(ctx)
}

// ReleaseFast releases a board operation slot.
func (p *WorkerPool) ReleaseFast() {
	p.fast.release()
}

// AcquireSlow acquires a slot for a search.
// Returns an error if the context is cancelled while waiting.
func (p *WorkerPool) AcquireSlow(ctx context.Context) error {
	return p.slow.acquire(ctx)
}

// ReleaseSlow releases a search slot.
func (p *WorkerPool) ReleaseSlow() {
	p.slow.release()
}

// TryAcquireFast acquires a board operation slot without blocking.
func (p *WorkerPool) TryAcquireFast() bool {
	return p.fast.tryAcquire()
}

// TryAcquireSlow acquires a search slot without blocking.
func (p *WorkerPool) TryAcquireSlow() bool {
	return p.slow.tryAcquire()
}

// AcquireSlowWithTimeout tries to acquire a search slot within timeout.
// Used where no request context is available, as on WebSocket connections.
func (p *WorkerPool) AcquireSlowWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.AcquireSlow(ctx)
}

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	ActiveFast int64 `json:"active_fast"`
	ActiveSlow int64 `json:"active_slow"`
	QueuedFast int64 `json:"queued_fast"`
	QueuedSlow int64 `json:"queued_slow"`
	TotalFast  int64 `json:"total_fast"`
	TotalSlow  int64 `json:"total_slow"`
	MaxFast    int   `json:"max_fast"`
	MaxSlow    int   `json:"max_slow"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveFast: p.fast.active.Load(),
		ActiveSlow: p.slow.active.Load(),
		QueuedFast: p.fast.queued.Load(),
		QueuedSlow: p.slow.queued.Load(),
		TotalFast:  p.fast.total.Load(),
		TotalSlow:  p.slow.total.Load(),
		MaxFast:    cap(p.fast.sem),
		MaxSlow:    cap(p.slow.sem),
	}
}
