package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/davideustache-creator/BigBrother/feed"
	"github.com/davideustache-creator/BigBrother/storage"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (optional, env overrides)")
	flag.Parse()

	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}
	log.Info("github collection agent starting")

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Token == "" {
		log.Fatal("missing GITHUB_TOKEN: set a GitHub personal access token")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	retry := storage.Retry{Delay: cfg.ConnectDelay}
	archive, err := storage.ConnectArchive(ctx, storage.ArchiveConfig{
		Hosts:        cfg.CassandraHosts,
		Keyspace:     storage.Keyspace,
		ConnectRetry: retry,
	})
	if err != nil {
		log.Fatalf("cassandra: %v", err)
	}
	defer archive.Close()

	index, err := storage.ConnectIndex(ctx, storage.IndexConfig{
		Addr:         cfg.RedisAddr,
		ConnectRetry: retry,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer index.Close()

	metricsSrv := serveMetrics(cfg.MetricsAddr)
	defer metricsSrv.Close()

	client := feed.New(cfg.FeedURL, cfg.Token, cfg.FeedTimeout)
	writer := &dualWriter{archive: archive, index: index}
	newIngestLoop(client, writer, cfg.PollInterval).Run(ctx)

	log.Info("agent stopped")
}
