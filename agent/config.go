package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/davideustache-creator/BigBrother/feed"
)

// Config drives the ingestion agent. Values come from an optional YAML file;
// environment variables take precedence so deployments can override without
// re-mounting config.
type Config struct {
	FeedURL        string        `yaml:"feed_url"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	FeedTimeout    time.Duration `yaml:"feed_timeout"`
	CassandraHosts []string      `yaml:"cassandra_hosts"`
	RedisAddr      string        `yaml:"redis_addr"`
	MetricsAddr    string        `yaml:"metrics_addr"`
	ConnectDelay   time.Duration `yaml:"connect_delay"`

	// Token comes from GITHUB_TOKEN only, never from the file.
	Token string `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		FeedURL:        feed.DefaultURL,
		PollInterval:   60 * time.Second,
		FeedTimeout:    15 * time.Second,
		CassandraHosts: []string{"cassandra"},
		RedisAddr:      "redis-search:6379",
		MetricsAddr:    ":2112",
		ConnectDelay:   5 * time.Second,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if cfg.PollInterval <= 0 {
		return cfg, fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	if len(cfg.CassandraHosts) == 0 {
		return cfg, fmt.Errorf("no cassandra hosts configured")
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Token = os.Getenv("GITHUB_TOKEN")
	if v := os.Getenv("GITHUB_FEED_URL"); v != "" {
		c.FeedURL = v
	}
	if v := os.Getenv("CASSANDRA_HOSTS"); v != "" {
		c.CassandraHosts = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid POLL_INTERVAL: %w", err)
		}
		c.PollInterval = d
	}
	return nil
}
