package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/crossdocs/xbridl/internal/api"
	"github.com/crossdocs/xbridl/internal/config"
	"github.com/crossdocs/xbridl/internal/extractor"
	"github.com/crossdocs/xbridl/internal/observe"
	"github.com/crossdocs/xbridl/internal/pipeline"
	"github.com/crossdocs/xbridl/internal/store"
	"github.com/crossdocs/xbridl/internal/watch"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize observability.
	metrics := observe.NewMetrics()
	stats := observe.NewScanStats(time.Hour)

	// Initialize extraction engine and run store.
	ex := extractor.New(extractor.Config{
		Extensions: cfg.Extensions,
		Markers:    cfg.Markers,
		IndentUnit: cfg.IndentUnit,
		CacheSize:  cfg.CacheSize,
	}, log, metrics, stats)

	st, err := store.New(cfg.DataDir, log)
	if err != nil {
		log.Error("failed to open run store", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, ex, st, log)
	orch.Start(ctx)

	// Optional watch mode: changed files trigger a targeted re-extraction.
	var watcher *watch.Watcher
	if cfg.WatchEnabled {
		watcher, err = watch.New(cfg.DocsRoot, cfg.Extensions, cfg.WatchDelay, log, func(paths []string) {
			job := pipeline.NewJob(cfg.DocsRoot, paths)
			if err := orch.Submit(job); err != nil {
				log.Warn("watch re-extraction not queued", "error", err)
			}
		})
		if err == nil {
			err = watcher.Start()
		}
		if err != nil {
			log.Error("failed to start watcher", "error", err)
			os.Exit(1)
		}
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, metrics, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		if watcher != nil {
			watcher.Close()
		}
		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting xbridl", "port", cfg.Port, "docs_root", cfg.DocsRoot)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
