package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/davideustache-creator/BigBrother/domain"
)

const (
	// IndexName is the RediSearch index over event documents.
	IndexName = "idx:events"

	indexKeyPrefix = "event:"

	// DefaultSearchLimit caps search results when the caller does not.
	DefaultSearchLimit = 50
)

// IndexConfig describes how to reach the RediSearch instance. Addr accepts a
// redis:// URL or a bare host:port.
type IndexConfig struct {
	Addr         string
	ConnectRetry Retry
}

// Index is the derived full-text search store backed by RediSearch. It holds
// no information that cannot be regenerated from the archival store or from
// re-ingestion.
type Index struct {
	client *redis.Client
}

// NewIndex wraps an existing Redis client. Used by tests; production code
// goes through ConnectIndex.
func NewIndex(client *redis.Client) *Index {
	return &Index{client: client}
}

// ConnectIndex blocks until a ping-verified Redis client is available,
// retrying per cfg.ConnectRetry.
func ConnectIndex(ctx context.Context, cfg IndexConfig) (*Index, error) {
	opts, err := redis.ParseURL(cfg.Addr)
	if err != nil {
		opts = &redis.Options{Addr: cfg.Addr}
	}
	client := redis.NewClient(opts)
	if err := cfg.ConnectRetry.Do(ctx, "redis", func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		client.Close()
		return nil, err
	}
	log.WithField("addr", opts.Addr).Info("connected to redis")
	return &Index{client: client}, nil
}

// UpsertEvent writes the searchable projection of ev at its deterministic
// document key. HSET overwrites field-wise, so re-writing the same key leaves
// exactly one document reflecting the latest write.
func (ix *Index) UpsertEvent(ctx context.Context, ev domain.Event) error {
	return ix.client.HSet(ctx, ev.IndexKey(), map[string]interface{}{
		"title":       ev.Title,
		"author":      ev.Author,
		"source":      string(ev.Source),
		"content_url": ev.ContentURL,
		"event_time":  ev.Time.Unix(),
	}).Err()
}

// SearchHit is one ranked document from the index.
type SearchHit struct {
	Title      string
	Content    string
	Author     string
	Source     string
	ContentURL string
	EventTime  time.Time
}

// Search runs a free-text query against the index, returning the total match
// count and up to limit ranked documents.
func (ix *Index) Search(ctx context.Context, query string, limit int) (int64, []SearchHit, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	res, err := ix.client.FTSearchWithArgs(ctx, IndexName, query, &redis.FTSearchOptions{
		LimitOffset: 0,
		Limit:       limit,
	}).Result()
	if err != nil {
		return 0, nil, err
	}
	hits := make([]SearchHit, 0, len(res.Docs))
	for _, doc := range res.Docs {
		hit := SearchHit{
			Title:      doc.Fields["title"],
			Content:    doc.Fields["content"],
			Author:     doc.Fields["author"],
			Source:     doc.Fields["source"],
			ContentURL: doc.Fields["content_url"],
		}
		if secs, err := strconv.ParseFloat(doc.Fields["event_time"], 64); err == nil {
			hit.EventTime = time.Unix(int64(secs), 0).UTC()
		}
		hits = append(hits, hit)
	}
	return int64(res.Total), hits, nil
}

// Ping verifies the store is reachable.
func (ix *Index) Ping(ctx context.Context) error {
	return ix.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (ix *Index) Close() error {
	return ix.client.Close()
}
