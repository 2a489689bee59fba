package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"emojichirp/internal/config"
	"emojichirp/internal/db"
	"emojichirp/internal/events"
	"emojichirp/internal/handlers"
	"emojichirp/internal/identity"
	"emojichirp/internal/ratelimit"
	"emojichirp/internal/repository"
	"emojichirp/internal/router"
	"emojichirp/internal/services"
	"emojichirp/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Otel)
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = shutdownTracing(c)
	}()

	// Initialize Database
	gdb, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	publisher := events.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(reg)

	idp := identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.SecretKey, cfg.Identity.Timeout)
	limiter := ratelimit.New(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)

	postService := services.NewPostService(repository.NewPostRepository(gdb), idp, limiter, publisher, metrics)
	profileService := services.NewProfileService(idp)

	gin.SetMode(cfg.GinMode)
	engine := router.New(router.Handlers{
		Posts:    handlers.NewPostHandler(postService, cfg.RateLimit.Window),
		Profiles: handlers.NewProfileHandler(profileService),
		Health: handlers.NewHealthHandler(map[string]handlers.Check{
			"database": func(ctx context.Context) error { return db.Ping(ctx, gdb) },
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
	}, router.Options{
		AuthKey:        []byte(cfg.Auth.JWTKey),
		Logger:         logger,
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: otelhttp.NewHandler(engine, cfg.Otel.ServiceName),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("emojichirp server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	c, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(c)
}
