package api

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// poolLane exposes one side of a WorkerPool for table-driven tests.
type poolLane struct {
	name       string
	acquire    func(*WorkerPool, context.Context) error
	tryAcquire func(*WorkerPool) bool
	release    func(*WorkerPool)
	active     func(PoolStats) int64
	total      func(PoolStats) int64
}

var poolLanes = []poolLane{
	{
		name:       "fast",
		acquire:    (*WorkerPool).AcquireFast,
		tryAcquire: (*WorkerPool).TryAcquireFast,
		release:    (*WorkerPool).ReleaseFast,
		active:     func(s PoolStats) int64 { return s.ActiveFast },
		total:      func(s PoolStats) int64 { return s.TotalFast },
	},
	{
		name:       "slow",
		acquire:    (*WorkerPool).AcquireSlow,
		tryAcquire: (*WorkerPool).TryAcquireSlow,
		release:    (*WorkerPool).ReleaseSlow,
		active:     func(s PoolStats) int64 { return s.ActiveSlow },
		total:      func(s PoolStats) int64 { return s.TotalSlow },
	},
}

func TestWorkerPoolAcquireRelease(t *testing.T) {
	for _, l := range poolLanes {
		t.Run(l.name, func(t *testing.T) {
			pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 2, MaxSlowWorkers: 2})
			ctx := context.Background()

			for i := 0; i < 2; i++ {
				if err := l.acquire(pool, ctx); err != nil {
					t.Fatalf("acquire %d failed: %v", i+1, err)
				}
			}
			if got := l.active(pool.Stats()); got != 2 {
				t.Errorf("active = %d, want 2", got)
			}
			if l.tryAcquire(pool) {
				t.Error("Should not be able to acquire a third slot")
			}

			l.release(pool)
			l.release(pool)

			stats := pool.Stats()
			if got := l.active(stats); got != 0 {
				t.Errorf("active after release = %d, want 0", got)
			}
			if got := l.total(stats); got != 2 {
				t.Errorf("total = %d, want 2", got)
			}
		})
	}
}

func TestWorkerPoolLanesIndependent(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 1, MaxSlowWorkers: 1})

	if !pool.TryAcquireSlow() {
		t.Fatal("Failed to acquire the slow slot")
	}
	if !pool.TryAcquireFast() {
		t.Error("A busy slow lane should not block the fast lane")
	}
	pool.ReleaseFast()
	pool.ReleaseSlow()
}

func TestWorkerPoolContextCancellation(t *testing.T) {
	for _, l := range poolLanes {
		t.Run(l.name, func(t *testing.T) {
			pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 1, MaxSlowWorkers: 1})
			if err := l.acquire(pool, context.Background()); err != nil {
				t.Fatalf("acquire failed: %v", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if err := l.acquire(pool, ctx); err != context.Canceled {
				t.Errorf("Expected context.Canceled, got %v", err)
			}
			l.release(pool)
		})
	}
}

func TestWorkerPoolConcurrency(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 10, MaxSlowWorkers: 3})

	var wg sync.WaitGroup
	var running, peak atomic.Int64
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pool.AcquireSlow(ctx); err != nil {
				t.Errorf("AcquireSlow failed: %v", err)
				return
			}
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			pool.ReleaseSlow()
		}()
	}
	wg.Wait()

	if peak.Load() > 3 {
		t.Errorf("peak concurrency = %d, want at most 3", peak.Load())
	}
	if got := pool.Stats().TotalSlow; got != 12 {
		t.Errorf("TotalSlow = %d, want 12", got)
	}
}

func TestWorkerPoolTimeout(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 1, MaxSlowWorkers: 1})
	if err := pool.AcquireSlow(context.Background()); err != nil {
		t.Fatalf("AcquireSlow failed: %v", err)
	}

	if err := pool.AcquireSlowWithTimeout(10 * time.Millisecond); err != context.DeadlineExceeded {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
	pool.ReleaseSlow()
}

func TestWorkerPoolDefaults(t *testing.T) {
	stats := NewWorkerPool(PoolConfig{}).Stats()
	def := DefaultPoolConfig()
	if stats.MaxFast != def.MaxFastWorkers || stats.MaxSlow != def.MaxSlowWorkers {
		t.Errorf("limits = %d/%d, want %d/%d", stats.MaxFast, stats.MaxSlow, def.MaxFastWorkers, def.MaxSlowWorkers)
	}
}
