package storage

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

const defaultRetryDelay = 5 * time.Second

// Retry is a fixed-delay retry policy for connection establishment. The
// steady-state poll cadence does not back off; only this initial phase does.
// A zero MaxAttempts retries without bound.
type Retry struct {
	Delay       time.Duration
	MaxAttempts int
}

// Do runs fn until it succeeds, waiting Delay between attempts and logging
// each failure at warning level. It stops early when ctx is cancelled or the
// attempt budget is exhausted, returning the last error.
func (r Retry) Do(ctx context.Context, target string, fn func() error) error {
	delay := r.Delay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		log.WithError(err).WithField("target", target).
			Warnf("connection attempt %d failed, retrying in %s", attempt, delay)
		if r.MaxAttempts > 0 && attempt >= r.MaxAttempts {
			return fmt.Errorf("connect %s: %w", target, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
