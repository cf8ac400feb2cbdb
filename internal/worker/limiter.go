package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles row processing per book. Rows for the same narrative
// contend on one ingest path and one passage store; keying the limit by book
// keeps a skewed input file from hammering a single narrative.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter allowing rowsPerSecond starts per book
func NewLimiter(rowsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(rowsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the book's limiter clears or the context ends
func (l *Limiter) Wait(ctx context.Context, book string) error {
	return l.getLimiter(book).Wait(ctx)
}

// Allow reports whether a row may start now without waiting
func (l *Limiter) Allow(book string) bool {
	return l.getLimiter(book).Allow()
}

func (l *Limiter) getLimiter(book string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[book]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[book]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[book] = limiter

	return limiter
}
