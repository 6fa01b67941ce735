package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces per-minute, per-hour and per-day caps on the listing
// ingest route. A single timestamp log is kept; counts per window are
// derived from it. A limit of zero disables that window.
type Limiter struct {
	perMinute int
	perHour   int
	perDay    int
	enabled   bool

	mu  sync.Mutex
	log []time.Time
}

// NewLimiter creates a limiter with the given window caps.
func NewLimiter(perMinute, perHour, perDay int, enabled bool) *Limiter {
	return &Limiter{
		perMinute: perMinute,
		perHour:   perHour,
		perDay:    perDay,
		enabled:   enabled,
	}
}

// Allow records one request if every window has room, and reports
// whether it was admitted.
func (l *Limiter) Allow() bool {
	if !l.enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.prune(now)

	if l.perMinute > 0 && l.countSince(now.Add(-time.Minute)) >= l.perMinute {
		return false
	}
	if l.perHour > 0 && l.countSince(now.Add(-time.Hour)) >= l.perHour {
		return false
	}
	if l.perDay > 0 && len(l.log) >= l.perDay {
		return false
	}

	l.log = append(l.log, now)
	return true
}

// prune drops entries older than the widest window (24h).
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	kept := l.log[:0]
	for _, t := range l.log {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.log = kept
}

// countSince counts logged requests after the cutoff. The log is
// append-only in time order, so scan from the tail.
func (l *Limiter) countSince(cutoff time.Time) int {
	n := 0
	for i := len(l.log) - 1; i >= 0; i-- {
		if !l.log[i].After(cutoff) {
			break
		}
		n++
	}
	return n
}

// Stats contains limiter statistics for the stats endpoint.
type Stats struct {
	Enabled            bool `json:"enabled"`
	RequestsLastMinute int  `json:"requests_last_minute"`
	RequestsLastHour   int  `json:"requests_last_hour"`
	RequestsLastDay    int  `json:"requests_last_day"`
	LimitPerMinute     int  `json:"limit_per_minute"`
	LimitPerHour       int  `json:"limit_per_hour"`
	LimitPerDay        int  `json:"limit_per_day"`
}

// GetStats returns current limiter statistics.
func (l *Limiter) GetStats() Stats {
	if !l.enabled {
		return Stats{Enabled: false}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.prune(now)

	return Stats{
		Enabled:            true,
		RequestsLastMinute: l.countSince(now.Add(-time.Minute)),
		RequestsLastHour:   l.countSince(now.Add(-time.Hour)),
		RequestsLastDay:    len(l.log),
		LimitPerMinute:     l.perMinute,
		LimitPerHour:       l.perHour,
		LimitPerDay:        l.perDay,
	}
}

// Reset clears the request log (useful for testing).
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log = nil
}
