package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/api"
	"github.com/sanosuguru/go-venue-booking/internal/api/handler"
	"github.com/sanosuguru/go-venue-booking/internal/api/middleware"
	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/config"
	kafkainfra "github.com/sanosuguru/go-venue-booking/internal/infrastructure/kafka"
	"github.com/sanosuguru/go-venue-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-venue-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-venue-booking/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.Init(cfg.Env)
	defer func() { _ = logger.Sync() }()

	// DB接続とマイグレーション
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := postgres.NewConnection(ctx, &cfg.Database)
	cancel()
	if err != nil {
		log.Fatal("データベースに接続できません", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	m := metrics.Init()

	eventRepo := postgres.NewEventRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	userRepo := postgres.NewUserRepository(db)

	eventOpts := []application.EventServiceOption{application.WithMetrics(m)}
	var venueCache application.CapacityCache

	// Redis は任意。無ければロックもキャッシュも使わない
	if cfg.Redis.Enabled {
		redisClient, err := redisinfra.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal("Redisに接続できません", zap.Error(err))
		}
		defer redisClient.Close()

		lockManager := redisinfra.NewLockManager(redisClient, redisinfra.DefaultLockOptions(cfg.Booking.LockTTL))
		cache := redisinfra.NewVenueCache(redisClient, cfg.Booking.VenueCacheTTL)
		venueCache = cache
		eventOpts = append(eventOpts,
			application.WithSlotLocker(lockManager),
			application.WithCapacityCache(cache),
		)
		log.Info("Redisを有効化しました", zap.String("addr", cfg.Redis.Addr()))
	}

	if cfg.Kafka.Enabled() {
		producer := kafkainfra.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		eventOpts = append(eventOpts, application.WithPublisher(producer))
		log.Info("予約通知の配信を有効化しました",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	eventService := application.NewEventService(eventRepo, venueRepo, eventOpts...)
	venueService := application.NewVenueService(venueRepo, userRepo, venueCache)
	authService := application.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	middleware.SetupMiddleware(e, m)

	handler.RegisterRoutes(e, handler.Routes{
		Health:        handler.NewHealthHandler(db),
		Auth:          handler.NewAuthHandler(authService),
		Venue:         handler.NewVenueHandler(venueService),
		Event:         handler.NewEventHandler(eventService),
		RequireAuth:   middleware.JWTAuth(authService),
		AuthRateLimit: middleware.RateLimit(cfg.Auth.RateLimitPerMin),
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.Metrics))

	// バックグラウンドワーカー
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	reporter := worker.NewActiveEventsReporter(eventService, m.ActiveEvents, cfg.Booking.ActiveReportInterval)
	go reporter.Start(workerCtx)

	// Graceful shutdown
	go func() {
		log.Info("サーバーを起動します", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("サーバーをシャットダウンしています...")

	reporter.Stop()
	stopWorkers()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
