package core

// scan_limiter.go bounds the number of scans running at once.
//
// A directory scan holds open file handles and can hammer a network share,
// so the service admits at most a configurable number of jobs. Requests
// that cannot get a slot within maxWait fail with ErrTooManyScans rather
// than queueing unbounded. WaitForDrain supports graceful shutdown.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyScans is returned when all scan slots are occupied and the wait
// timeout expires. Clients should retry after a short delay.
var ErrTooManyScans = errors.New("too many concurrent scans, please try again later")

// DefaultMaxConcurrentScans is the default limit for parallel scan jobs.
const DefaultMaxConcurrentScans = 2

// DefaultScanMaxWait is how long to wait for a slot before rejecting.
const DefaultScanMaxWait = 10 * time.Second

// ScanLimiter controls concurrent scan processing with a semaphore.
type ScanLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewScanLimiter creates a limiter allowing at most maxConcurrent
// simultaneous scans. Non-positive arguments fall back to the defaults.
func NewScanLimiter(maxConcurrent int, maxWait time.Duration) *ScanLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentScans
	}
	if maxWait <= 0 {
		maxWait = DefaultScanMaxWait
	}

	return &ScanLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire attempts to acquire a scan slot.
// Returns nil on success, ErrTooManyScans if the wait timeout expires.
// The caller must call Release exactly once for each successful Acquire.
func (l *ScanLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyScans
	}
}

// Release releases a previously acquired slot.
func (l *ScanLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of currently running scans.
func (l *ScanLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until all active scans complete or ctx is cancelled.
func (l *ScanLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// ScanLimiterStatus is a snapshot of the limiter's current state.
type ScanLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *ScanLimiter) Status() ScanLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return ScanLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
