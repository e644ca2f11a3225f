package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const createKeyspaceCQL = `CREATE KEYSPACE IF NOT EXISTS ` + Keyspace + `
	WITH replication = { 'class': 'SimpleStrategy', 'replication_factor': '1' }`

const createEventsTableCQL = `CREATE TABLE IF NOT EXISTS ` + Keyspace + `.events (
	source text, event_date text, event_time timestamp, event_id text,
	event_type text, author text, title text, content_url text,
	metadata map<text, text>,
	PRIMARY KEY ((source, event_date), event_time, event_id)
) WITH CLUSTERING ORDER BY (event_time DESC)`

// EnsureSchema creates the keyspace and events table when absent. Safe to run
// on every provisioning pass.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if err := a.session.Query(createKeyspaceCQL).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("create keyspace: %w", err)
	}
	if err := a.session.Query(createEventsTableCQL).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

// Rebuild drops any existing search index and recreates it with the current
// field schema. The drop is unconditional: the index is a derived projection
// of archival truth, so no schema diffing is attempted. Documents themselves
// are left in place and re-enter the new index by key prefix.
func (ix *Index) Rebuild(ctx context.Context) error {
	if err := ix.client.FTDropIndex(ctx, IndexName).Err(); err != nil {
		if !isUnknownIndex(err) {
			return fmt.Errorf("drop index: %w", err)
		}
		log.WithField("index", IndexName).Debug("no existing index to drop")
	}
	err := ix.client.FTCreate(ctx, IndexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []interface{}{indexKeyPrefix},
		},
		&redis.FieldSchema{FieldName: "title", FieldType: redis.SearchFieldTypeText, Weight: 5},
		&redis.FieldSchema{FieldName: "content", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "author", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "source", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "content_url", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "event_time", FieldType: redis.SearchFieldTypeNumeric, Sortable: true},
	).Err()
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// isUnknownIndex reports whether err is RediSearch saying the index does not
// exist yet. That outcome is a no-op for Rebuild, not a failure.
func isUnknownIndex(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unknown index") || strings.Contains(msg, "no such index")
}
