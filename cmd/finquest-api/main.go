package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"finquest/internal/api"
	"finquest/internal/config"
	"finquest/internal/docdb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadAPIFromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var store docdb.Store
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store (development only)")
		store = docdb.NewMemory()
	} else {
		pg, err := docdb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("schema init failed", "err", err)
			os.Exit(1)
		}
		store = pg
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.PruneSchedule, func() {
		pruneCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		pruned, err := store.PruneSessions(pruneCtx, cfg.SessionMaxAge)
		if err != nil {
			logger.Error("session prune failed", "err", err)
			return
		}
		if pruned > 0 {
			logger.Info("stale sessions pruned", "count", pruned)
		}
	}); err != nil {
		logger.Error("invalid prune schedule", "schedule", cfg.PruneSchedule, "err", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := api.New(cfg, logger, store)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("finquest sync api listening", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
