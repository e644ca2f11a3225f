package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/davideustache-creator/BigBrother/storage"
)

// Provisioning entry point: idempotent archival schema creation plus the
// destructive rebuild of the search index. Run once before ingestion starts;
// safe to run again on every deploy.
func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}
	log.Info("storage init starting")

	hosts := []string{"cassandra"}
	if v := os.Getenv("CASSANDRA_HOSTS"); v != "" {
		hosts = strings.Split(v, ",")
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "redis-search:6379"
	}

	ctx := context.Background()
	retry := storage.Retry{Delay: 5 * time.Second}

	// No default keyspace: it may not exist yet.
	archive, err := storage.ConnectArchive(ctx, storage.ArchiveConfig{
		Hosts:        hosts,
		ConnectRetry: retry,
	})
	if err != nil {
		log.Fatalf("cassandra: %v", err)
	}
	defer archive.Close()
	if err := archive.EnsureSchema(ctx); err != nil {
		log.Fatalf("archive schema: %v", err)
	}
	log.Info("archive schema ready")

	index, err := storage.ConnectIndex(ctx, storage.IndexConfig{
		Addr:         redisAddr,
		ConnectRetry: retry,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer index.Close()
	if err := index.Rebuild(ctx); err != nil {
		log.Fatalf("search index: %v", err)
	}
	log.Info("search index rebuilt")

	log.Info("storage init complete")
}
