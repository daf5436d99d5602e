package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/santelink/provider-portal/api/routes"
	"github.com/santelink/provider-portal/internal/cart"
	"github.com/santelink/provider-portal/internal/catalog"
	"github.com/santelink/provider-portal/internal/dashboard"
	"github.com/santelink/provider-portal/internal/notifications"
	"github.com/santelink/provider-portal/internal/orders"
	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/internal/upstream"
	"github.com/santelink/provider-portal/pkg/config"
	"github.com/santelink/provider-portal/pkg/instance"
	"github.com/santelink/provider-portal/pkg/logger"
	"github.com/santelink/provider-portal/pkg/metrics"
	"github.com/santelink/provider-portal/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "portal"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "portal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)

	client, err := upstream.New(upstream.Options{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.RequestTimeout,
		Logger:  logg,
		Metrics: upstreamMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build upstream client", err)
		os.Exit(1)
	}

	var store session.Store
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		store, err = session.NewRedisStore(redisClient)
		if err != nil {
			logg.Error(context.Background(), "failed to build redis session store", err)
			os.Exit(1)
		}
	} else {
		memory := session.NewMemoryStore()
		store = memory
		go sweepExpiredSessions(memory, logg)
	}

	manager, err := session.NewManager(client, store, cfg.Session, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	carts := cart.NewRegistry()
	manager.OnChange(func(event session.Event) {
		if event.State == session.StateUnauthenticated {
			carts.Drop(event.SessionID)
		}
	})

	catalogService, err := catalog.NewService(client)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(client, client, carts, manager, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	dashboardService, err := dashboard.NewAggregator(client, manager, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard aggregator", err)
		os.Exit(1)
	}
	notificationsService, err := notifications.NewService(client, manager)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting portal server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			Sessions:      manager,
			Profile:       client,
			Catalog:       catalogService,
			Carts:         carts,
			Orders:        ordersService,
			Dashboard:     dashboardService,
			Notifications: notificationsService,
			Metrics:       registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "portal server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func sweepExpiredSessions(store *session.MemoryStore, logg *logger.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		if removed := store.Sweep(); removed > 0 {
			ctx := logg.WithField(context.Background(), "removed", removed)
			logg.Debug(ctx, "swept expired sessions")
		}
	}
}
