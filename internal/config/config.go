package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Extraction
	DocsRoot   string
	IndentUnit int
	Markers    []string
	Extensions []string
	CacheSize  int

	// Run persistence
	DataDir string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration

	// Watch mode
	WatchEnabled bool
	WatchDelay   time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("XBRIDL_API_KEY"),

		DocsRoot:   envOr("DOCS_ROOT", "./api/namespace"),
		IndentUnit: envInt("INDENT_UNIT", 4),
		Markers:    envList("DIRECTIVE_MARKERS", []string{".. xbr:"}),
		Extensions: envList("DOC_EXTENSIONS", []string{".rst"}),
		CacheSize:  envInt("CACHE_SIZE", 1024),

		DataDir: envOr("DATA_DIR", "./data/runs"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		WatchEnabled: envBool("WATCH_ENABLED", false),
		WatchDelay:   envDuration("WATCH_DELAY", 2*time.Second),
	}

	if cfg.IndentUnit <= 0 {
		cfg.IndentUnit = 4
	}
	if cfg.CacheSize < 0 {
		cfg.CacheSize = 0
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.WatchDelay <= 0 {
		cfg.WatchDelay = 2 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("XBRIDL_API_KEY is required")
	}
	if c.DocsRoot == "" {
		return fmt.Errorf("DOCS_ROOT is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
