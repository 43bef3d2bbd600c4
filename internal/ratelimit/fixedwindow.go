// Package ratelimit provides per-client admission control for the
// externally billed LLM endpoints.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether a request identified by key may proceed at the
// given time. Implementations must never block or fail.
type Limiter interface {
	Admit(key string, now time.Time) bool
}

// record tracks one client's count within the current window.
type record struct {
	count         int
	windowResetAt time.Time
}

// FixedWindow is a fixed-window counter keyed by client identifier. The
// guarantee is best-effort and per-process: each instance of the server
// counts only the requests it handled itself, and the counter resets
// abruptly at window boundaries (a burst of up to twice the ceiling is
// possible across an edge). Do not rely on it for a globally exact limit.
type FixedWindow struct {
	mu      sync.Mutex
	records map[string]*record
	limit   int
	window  time.Duration
	cleanup *time.Ticker
}

// NewFixedWindow creates a limiter that admits up to limit requests per key
// per window. A background goroutine evicts records whose window has
// elapsed; call Stop when the limiter is no longer needed.
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	fw := &FixedWindow{
		records: make(map[string]*record),
		limit:   limit,
		window:  window,
		cleanup: time.NewTicker(5 * time.Minute),
	}

	go fw.evictLoop()

	return fw
}

// Admit reports whether the request for key may proceed at now. The first
// request in a window (or any request after the window has elapsed) resets
// the counter to one and is admitted; requests at the ceiling are rejected
// without mutating state.
func (fw *FixedWindow) Admit(key string, now time.Time) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	rec, ok := fw.records[key]
	if !ok || !now.Before(rec.windowResetAt) {
		fw.records[key] = &record{count: 1, windowResetAt: now.Add(fw.window)}
		return true
	}

	if rec.count >= fw.limit {
		return false
	}

	rec.count++
	return true
}

// Stop stops the eviction goroutine's ticker.
func (fw *FixedWindow) Stop() {
	fw.cleanup.Stop()
}

func (fw *FixedWindow) evictLoop() {
	for range fw.cleanup.C {
		fw.evictExpired(time.Now())
	}
}

// evictExpired drops records whose window has already elapsed. Without this
// the table grows with every distinct client key for the life of the
// process.
func (fw *FixedWindow) evictExpired(now time.Time) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for key, rec := range fw.records {
		if !now.Before(rec.windowResetAt) {
			delete(fw.records, key)
		}
	}
}

// size returns the number of tracked keys. Used by tests.
func (fw *FixedWindow) size() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return len(fw.records)
}
