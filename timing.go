package rhi

import (
	"sync"
	"time"

	"github.com/loov/hrtime"
)

// TimingQuery measures the time between a StartTimingQuery and a
// StopTimingQuery command. Timestamps are taken with a high resolution
// clock when the executor replays the commands.
type TimingQuery struct {
	name string

	mu       sync.Mutex
	start    time.Duration
	elapsed  time.Duration
	running  bool
	resolved bool
}

// Name returns the debug name.
func (q *TimingQuery) Name() string { return q.name }

// MarkStart records the start timestamp. Called by executors.
func (q *TimingQuery) MarkStart() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.start = hrtime.Now()
	q.running = true
	q.resolved = false
}

// MarkStop records the stop timestamp. A stop without a start is ignored.
// Called by executors.
func (q *TimingQuery) MarkStop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running {
		return
	}
	q.elapsed = hrtime.Since(q.start)
	q.running = false
	q.resolved = true
}

// Resolved reports whether a start/stop pair has completed.
func (q *TimingQuery) Resolved() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.resolved
}

// Elapsed returns the last measured duration.
func (q *TimingQuery) Elapsed() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.elapsed
}

// ElapsedMilliseconds returns the last measured duration in milliseconds.
func (q *TimingQuery) ElapsedMilliseconds() float32 {
	return float32(q.Elapsed().Seconds() * 1000)
}
