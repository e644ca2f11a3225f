package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/davideustache-creator/BigBrother/domain"
)

type batchFetcher interface {
	FetchBatch(ctx context.Context) ([]domain.RawEvent, error)
	MinPollInterval() time.Duration
}

type eventWriter interface {
	Write(ctx context.Context, ev domain.Event) writeOutcome
}

// ingestLoop alternates between polling the feed and waiting out the poll
// interval. One logical thread; all I/O is inline and blocks the loop, and
// cycle N+1 cannot start before cycle N's wait completes.
type ingestLoop struct {
	feed     batchFetcher
	writer   eventWriter
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration)
}

func newIngestLoop(f batchFetcher, w eventWriter, interval time.Duration) *ingestLoop {
	return &ingestLoop{feed: f, writer: w, interval: interval, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Run polls until ctx is cancelled. The steady-state interval is fixed, but
// the feed may ask for a longer one (X-Poll-Interval) and wins when larger.
func (l *ingestLoop) Run(ctx context.Context) {
	for {
		l.runCycle(ctx)
		wait := l.interval
		if min := l.feed.MinPollInterval(); min > wait {
			wait = min
		}
		l.sleep(ctx, wait)
		if ctx.Err() != nil {
			return
		}
	}
}

// runCycle executes one poll cycle: fetch a batch, then push every record
// through normalization and the dual writer in upstream-delivery order. A
// transport failure abandons the cycle without consuming partial results; a
// bad record is dropped with zero writes and processing continues.
func (l *ingestLoop) runCycle(ctx context.Context) {
	cycle := log.WithField("cycle", uuid.NewString())
	start := time.Now()
	pollCycles.Inc()

	batch, err := l.feed.FetchBatch(ctx)
	if err != nil {
		pollFailures.Inc()
		cycle.WithError(err).Warn("feed fetch failed, cycle abandoned")
		return
	}

	var stored, skipped, failed int
	for _, raw := range batch {
		ev, err := domain.Normalize(raw)
		if err != nil {
			skipped++
			eventsSkipped.Inc()
			cycle.WithError(err).Error("record dropped")
			continue
		}
		out := l.writer.Write(ctx, ev)
		if out.archived && out.indexed {
			stored++
			eventsStored.Inc()
		} else {
			failed++
		}
	}
	cycle.WithFields(log.Fields{
		"fetched":     len(batch),
		"stored":      stored,
		"skipped":     skipped,
		"failed":      failed,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("poll cycle complete")
}
