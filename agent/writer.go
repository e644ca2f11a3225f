package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/davideustache-creator/BigBrother/domain"
)

type archiveWriter interface {
	InsertEvent(ctx context.Context, ev domain.Event) error
}

type indexWriter interface {
	UpsertEvent(ctx context.Context, ev domain.Event) error
}

// writeOutcome reports which stores accepted an event.
type writeOutcome struct {
	archived bool
	indexed  bool
}

// dualWriter fans one event out to the archival store and the search index.
// The two writes are not transactional. Ordering is archive-first: under a
// crash between them an event can be archived but unsearchable, which an
// index rebuild or re-ingestion repairs; the reverse (searchable without a
// durable record) cannot happen. Both writes are upserts on deterministic
// keys, so re-processing a record after a partial failure converges instead
// of duplicating.
type dualWriter struct {
	archive archiveWriter
	index   indexWriter
}

// Write stores ev in both stores. A store failure is logged with the event id
// and store identity, counted, and never propagated: one bad event must not
// affect the rest of its batch. An archive failure skips the index write so
// the index never gets ahead of the durable record.
func (w *dualWriter) Write(ctx context.Context, ev domain.Event) writeOutcome {
	var out writeOutcome
	if err := w.archive.InsertEvent(ctx, ev); err != nil {
		log.WithError(err).WithFields(log.Fields{"event": ev.ID, "store": "archive"}).
			Error("event write failed")
		writeFailures.WithLabelValues("archive").Inc()
		return out
	}
	out.archived = true
	if err := w.index.UpsertEvent(ctx, ev); err != nil {
		log.WithError(err).WithFields(log.Fields{"event": ev.ID, "store": "index"}).
			Error("event write failed")
		writeFailures.WithLabelValues("index").Inc()
		return out
	}
	out.indexed = true
	return out
}
