package main

import (
	"context"
	"log"
	"log/slog"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/cache"
	"github.com/edulife/edulife-admin/internal/config"
	"github.com/edulife/edulife-admin/internal/db"
	"github.com/edulife/edulife-admin/internal/httpmiddleware"
	"github.com/edulife/edulife-admin/internal/imagecache"
	"github.com/edulife/edulife-admin/internal/imagecache/local"
	"github.com/edulife/edulife-admin/internal/logging"
	"github.com/edulife/edulife-admin/internal/metrics"
	"github.com/edulife/edulife-admin/internal/service"
	"github.com/edulife/edulife-admin/internal/store"
	"github.com/edulife/edulife-admin/internal/web"
	"github.com/edulife/edulife-admin/internal/web/templates"
)

const redisKeyPrefix = "edulife-admin:"

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	activities := store.NewActivityStore(database)
	if n, err := activities.DeleteOlderThan(ctx, time.Now().Add(-cfg.ActivityRetention)); err != nil {
		logger.Warn("failed to prune activity log", "error", err)
	} else if n > 0 {
		logger.Info("pruned activity log", "deleted", n)
	}

	cacheStore, closeCache := newCacheStore(ctx, cfg, logger)
	defer closeCache()

	m := metrics.New()
	client := backend.NewClient(cfg.APIBaseURL, cfg.APITimeout).WithObserver(m.ObserveBackend)

	mediaStore, err := local.NewLocalImageStore(cfg.MediaCachePath)
	if err != nil {
		logger.Error("failed to initialize media cache", "error", err)
		return
	}
	proxy := imagecache.NewProxy(mediaStore, mediaHosts(cfg), cfg.APITimeout, logger)

	deps := service.Deps{
		Cache:      cache.New(cacheStore, cfg.CacheTTL, logger).WithStats(m),
		Activities: activities,
		Images:     proxy,
		Logger:     logger,
	}
	events := service.NewEventService(client, deps)
	teachers := service.NewTeacherService(client, deps)
	gallery := service.NewGalleryService(client, deps)
	contacts := service.NewContactService(client, deps)

	server := web.NewServer(web.Services{
		Auth:      service.NewAuthService(client, deps),
		Dashboard: service.NewDashboardService(events, teachers, gallery, contacts, deps),
		Events:    events,
		Teachers:  teachers,
		Contacts:  contacts,
		Gallery:   gallery,
		Settings:  service.NewSettingsService(client, deps),
	}, templates.FS, web.Options{
		CookieSecure: cfg.CookieSecure,
		Media:        proxy,
		Metrics:      m,
		LoginLimiter: httpmiddleware.NewSimpleTokenBucket(cfg.LoginRatePerMin, cfg.LoginRatePerMin),
	}, logger)

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// newCacheStore returns the configured query cache store and its cleanup.
// An unreachable Redis falls back to the in-process store.
func newCacheStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Store, func()) {
	if cfg.CacheBackend == "redis" {
		rs := cache.NewRedisStore(cfg.RedisAddr, redisKeyPrefix)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err := rs.Ping(pingCtx)
		if err == nil {
			logger.Info("using redis query cache", "addr", cfg.RedisAddr)
			return rs, func() {
				if err := rs.Close(); err != nil {
					logger.Error("failed to close redis", "error", err)
				}
			}
		}
		logger.Warn("redis unavailable, using in-memory query cache", "addr", cfg.RedisAddr, "error", err)
		_ = rs.Close()
	}
	return cache.NewMemoryStore(10 * time.Minute), func() {}
}

// mediaHosts allows the API host alongside the configured media hosts.
func mediaHosts(cfg *config.Config) []string {
	hosts := cfg.MediaHosts
	if u, err := url.Parse(cfg.APIBaseURL); err == nil && u.Hostname() != "" {
		hosts = append([]string{u.Hostname()}, hosts...)
	}
	return hosts
}
