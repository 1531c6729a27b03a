// Package stats provides run statistics tracking for platformapi.
package stats

import (
	"sync"
	"time"

	"platformapi/internal/recap"
)

// Snapshot holds a point-in-time copy of the run statistics
type Snapshot struct {
	TotalRuns    int
	Successes    int
	Failures     int
	LastRun      time.Time
	LastDuration time.Duration
	LastSuccess  bool
	LastSummary  recap.Summary
}

// Tracker accumulates automation run statistics across requests
type Tracker struct {
	mu           sync.RWMutex
	totalRuns    int
	successes    int
	failures     int
	lastRun      time.Time
	lastDuration time.Duration
	lastSuccess  bool
	lastSummary  recap.Summary
}

// NewTracker creates a new statistics tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record registers the outcome of one automation run. The summary may
// be nil when the run never produced output.
func (t *Tracker) Record(success bool, duration time.Duration, summary recap.Summary) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalRuns++
	if success {
		t.successes++
	} else {
		t.failures++
	}
	t.lastRun = time.Now()
	t.lastDuration = duration
	t.lastSuccess = success
	t.lastSummary = summary
}

// Snapshot returns a consistent copy of the current statistics
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return Snapshot{
		TotalRuns:    t.totalRuns,
		Successes:    t.successes,
		Failures:     t.failures,
		LastRun:      t.lastRun,
		LastDuration: t.lastDuration,
		LastSuccess:  t.lastSuccess,
		LastSummary:  t.lastSummary,
	}
}
