package storage

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	log "github.com/sirupsen/logrus"

	"github.com/davideustache-creator/BigBrother/domain"
)

// Keyspace holds all archival tables.
const Keyspace = "bigbrother"

// ArchiveConfig describes how to reach the Cassandra cluster. An empty
// Keyspace connects without a default keyspace, which provisioning needs
// before the keyspace exists.
type ArchiveConfig struct {
	Hosts        []string
	Keyspace     string
	Timeout      time.Duration
	ConnectRetry Retry
}

// Archive is the append-only archival store backed by Cassandra. Rows are
// keyed by ((source, event_date), event_time DESC, event_id), so partitions
// read back in descending time order and re-inserting the same key overwrites
// in place.
type Archive struct {
	session *gocql.Session
}

// gocql prepares parameterized queries on first use and reuses them after.
const insertEventCQL = `INSERT INTO ` + Keyspace + `.events
	(source, event_date, event_time, event_id, event_type, author, title, content_url)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// ConnectArchive blocks until a live Cassandra session is available, retrying
// per cfg.ConnectRetry. It never returns a half-initialized handle.
func ConnectArchive(ctx context.Context, cfg ArchiveConfig) (*Archive, error) {
	var session *gocql.Session
	err := cfg.ConnectRetry.Do(ctx, "cassandra", func() error {
		cluster := gocql.NewCluster(cfg.Hosts...)
		cluster.Keyspace = cfg.Keyspace
		if cfg.Timeout > 0 {
			cluster.Timeout = cfg.Timeout
		}
		s, err := cluster.CreateSession()
		if err != nil {
			return err
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.WithField("hosts", cfg.Hosts).Info("connected to cassandra")
	return &Archive{session: session}, nil
}

// InsertEvent writes one event row. The insert carries the full primary key,
// making it an idempotent upsert: re-processing the same upstream record
// converges to one stored row.
func (a *Archive) InsertEvent(ctx context.Context, ev domain.Event) error {
	return a.session.Query(insertEventCQL,
		string(ev.Source), ev.Date, ev.Time, ev.ID,
		ev.Type, ev.Author, ev.Title, ev.ContentURL,
	).WithContext(ctx).Exec()
}

// Close releases the underlying session.
func (a *Archive) Close() {
	a.session.Close()
}
