package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/comercial-bex/criativo-flow-sub009/internal/config"
	"github.com/comercial-bex/criativo-flow-sub009/internal/handler"
	"github.com/comercial-bex/criativo-flow-sub009/internal/health"
	"github.com/comercial-bex/criativo-flow-sub009/internal/infra/eventcache"
	"github.com/comercial-bex/criativo-flow-sub009/internal/infra/repository"
	"github.com/comercial-bex/criativo-flow-sub009/internal/infra/scheduleapi"
	"github.com/comercial-bex/criativo-flow-sub009/internal/observability"
	"github.com/comercial-bex/criativo-flow-sub009/internal/observability/logging"
	"github.com/comercial-bex/criativo-flow-sub009/internal/observability/metrics"
	"github.com/comercial-bex/criativo-flow-sub009/internal/observability/middleware"
	"github.com/comercial-bex/criativo-flow-sub009/internal/service/conflict"
	"github.com/comercial-bex/criativo-flow-sub009/internal/service/events"
	"github.com/comercial-bex/criativo-flow-sub009/internal/service/publisher"
	"github.com/comercial-bex/criativo-flow-sub009/internal/service/queueproc"
	"github.com/comercial-bex/criativo-flow-sub009/internal/service/reschedule"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	schedMetrics, err := metrics.NewSchedulerMetrics()
	if err != nil {
		slog.Error("failed to initialize scheduler metrics", slog.String("error", err.Error()))
		return 1
	}

	db, err := repository.Open(cfg.Database.DSN)
	if err != nil {
		slog.Error("failed to connect database",
			slog.String("event", "database.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	eventRepo := repository.NewEventRepository(db)
	postRepo := repository.NewPostRepository(db)
	queueRepo := repository.NewQueueRepository(db)
	credRepo := repository.NewCredentialRepository(db)

	windowCache := eventcache.NewCache(redisClient)
	scheduleClient := scheduleapi.NewClient(cfg.RescheduleServiceURL)

	loc := cfg.Schedule.Location()

	detector := conflict.NewDetector(loc)
	eventService := events.NewService(eventRepo, postRepo, queueRepo, windowCache, loc, cfg.Queue.MaxAttempts)
	engine := reschedule.NewEngine(postRepo, scheduleClient, loc, cfg.Schedule.DailyPostCap, cfg.Schedule.UndoWindow)
	publishers := publisher.NewRegistry(credRepo, cfg.Platform.GraphAPIBaseURL, cfg.Platform.LinkedInAPIBaseURL)
	processor := queueproc.NewProcessor(queueRepo, postRepo, publishers, cfg.Queue.BatchSize, schedMetrics, obs.Logger)

	eventHandler := handler.NewEventHandler(eventService, detector, schedMetrics)
	rescheduleHandler := handler.NewRescheduleHandler(engine, schedMetrics)
	queueHandler := handler.NewQueueHandler(processor)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		Logger:      obs.Logger,
		HTTPMetrics: httpMetrics,
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
	}))
	r.Use(middleware.PanicRecoveryGin(obs.Logger))

	healthChecker := health.NewChecker(redisClient, db, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/events", eventHandler.HandleFetchWindow)
		v1.POST("/events", eventHandler.HandleCreateEvent)
		v1.PUT("/events/:id", eventHandler.HandleUpdateEvent)
		v1.DELETE("/events/:id", eventHandler.HandleDeleteEvent)
		v1.GET("/conflicts", eventHandler.HandleConflicts)
		v1.POST("/posts/:id/schedule", eventHandler.HandleSchedulePost)
		v1.POST("/posts/:id/move", rescheduleHandler.HandleMove)
		v1.POST("/posts/:id/move/resolve", rescheduleHandler.HandleResolve)
		v1.POST("/posts/:id/move/undo", rescheduleHandler.HandleUndo)
		v1.POST("/queue/process", queueHandler.HandleProcess)
	}

	// Internal cron trigger is optional; normally an external scheduler
	// hits the HTTP endpoint.
	var queueCron *cron.Cron
	if cfg.Queue.Cron != "" {
		queueCron = cron.New()
		_, err := queueCron.AddFunc(cfg.Queue.Cron, func() {
			runCtx, runCancel := context.WithTimeout(ctx, 5*time.Minute)
			defer runCancel()
			if _, err := processor.ProcessDue(runCtx, time.Now().UTC()); err != nil {
				slog.Error("scheduled queue run failed", slog.String("error", err.Error()))
			}
		})
		if err != nil {
			slog.Error("invalid queue cron expression",
				slog.String("cron", cfg.Queue.Cron),
				slog.String("error", err.Error()),
			)
			return 1
		}
		queueCron.Start()
		defer queueCron.Stop()

		slog.Info("internal queue trigger enabled", slog.String("cron", cfg.Queue.Cron))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("queue_batch_size", cfg.Queue.BatchSize),
			slog.Int("daily_post_cap", cfg.Schedule.DailyPostCap),
			slog.String("business_timezone", loc.String()),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "publication-scheduler"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    serviceName,
			Version: Version,
		},
		Environment:   env,
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SamplingRate:  1.0,
		LogLevel:      cfg.LogLevel,
		DefaultModule: logging.Module("publication-scheduler"),
	})
}
