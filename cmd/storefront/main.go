package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamo-store/backend/internal/infrastructure/config"
	"github.com/mamo-store/backend/internal/infrastructure/logger"
	"github.com/mamo-store/backend/internal/store"
	"github.com/mamo-store/backend/internal/store/mirror"
	"github.com/mamo-store/backend/internal/store/remote"
	"github.com/mamo-store/backend/internal/store/syncq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront",
		zap.String("server", cfg.Remote.BaseURL),
		zap.String("mirror", cfg.Store.MirrorPath),
	)

	m, err := mirror.Open(cfg.Store.MirrorPath, cfg.Store.EventLogCap)
	if err != nil {
		log.Fatal("Failed to open local mirror", zap.Error(err))
	}
	defer m.Close()

	if err := m.SetServerURL(cfg.Remote.BaseURL); err != nil {
		log.Warn("Failed to record server url", zap.Error(err))
	}

	rc := remote.NewClient(cfg.Remote)
	queue := syncq.New(m, rc, cfg.Remote.DrainInterval, log)
	container := store.New(m, rc, queue, cfg.Store, log)

	if err := container.Restore(); err != nil {
		log.Fatal("Failed to restore state", zap.Error(err))
	}
	container.TrackEvent("app_start", map[string]string{"server": cfg.Remote.BaseURL})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initial sync, best-effort
	container.CheckHealth(ctx)
	if err := container.RefreshData(ctx); err != nil {
		log.Warn("Initial refresh failed", zap.Error(err))
	}

	go queue.Start(ctx)
	go healthLoop(ctx, container, cfg.Remote.HealthInterval)
	go refreshLoop(ctx, container, cfg.Remote.RefreshInterval, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down storefront")
	cancel()

	// one last drain so a clean shutdown loses nothing that the server
	// would have accepted
	drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer drainCancel()
	if _, err := queue.Drain(drainCtx); err != nil {
		pending, _ := queue.Pending()
		log.Warn("Final drain incomplete, mutations remain queued",
			zap.Int64("pending", pending), zap.Error(err))
	}
}

func healthLoop(ctx context.Context, c *store.Container, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckHealth(ctx)
		}
	}
}

func refreshLoop(ctx context.Context, c *store.Container, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.RefreshData(ctx); err != nil {
				log.Warn("Refresh failed", zap.Error(err))
			}
		}
	}
}
