package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/noventicred/constrular/internal/cart"
	"github.com/noventicred/constrular/internal/catalog"
	"github.com/noventicred/constrular/internal/checkout"
	"github.com/noventicred/constrular/internal/config"
	h "github.com/noventicred/constrular/internal/http"
	"github.com/noventicred/constrular/internal/orders"
	"github.com/noventicred/constrular/internal/settings"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Catalog on SQLite, shared with the settings repository
	catalogRepo, err := catalog.NewSQLiteRepository(cfg.CatalogDBPath)
	if err != nil {
		logger.Fatal("failed to open catalog database", zap.Error(err))
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.CatalogMigrate); err != nil {
		logger.Fatal("catalog migrations failed", zap.Error(err))
	}
	logger.Info("catalog database ready", zap.String("path", cfg.CatalogDBPath))

	settingsSvc := settings.NewService(settings.NewSQLiteRepository(catalogRepo.DB()), cfg.SettingsTTL, logger)

	// Cart snapshots live in Redis when configured; the breaker keeps a
	// dead Redis from slowing down every mutation. Without Redis the
	// cart is memory-only for the process lifetime.
	var snapshots cart.SnapshotStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		logger.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))
		snapshots = cart.NewBreakerSnapshots(cart.NewRedisSnapshots(redisClient), logger)
	} else {
		logger.Warn("REDIS_ADDR not set, cart snapshots are in-memory only")
		snapshots = cart.NewMemorySnapshots()
	}
	cartStore := cart.NewStore(snapshots, logger)

	// Orders on Postgres
	creds := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPass,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.OrdersMigrate,
	}
	ordersRepo, err := orders.NewPostgresRepository(creds)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer ordersRepo.Close()
	if err := ordersRepo.RunMigrations(creds); err != nil {
		logger.Fatal("orders migrations failed", zap.Error(err))
	}
	logger.Info("orders database ready", zap.String("host", cfg.PostgresHost))

	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	if cfg.KafkaBrokers != "" {
		writer := orders.NewKafkaWriter(strings.Split(cfg.KafkaBrokers, ",")...)
		defer writer.Close()
		poller := orders.NewOutboxPoller(ordersRepo, writer, logger)
		go poller.Run(pollerCtx)
		logger.Info("order outbox poller started", zap.String("brokers", cfg.KafkaBrokers))
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events stay queued in the outbox")
	}

	builder := checkout.NewBuilder("Constrular", checkout.Template(cfg.MessageTemplate))
	checkoutSvc := checkout.NewService(builder, ordersRepo, settingsSvc, logger)

	router := h.NewRouter(h.RouterDeps{
		Cart:     h.NewCartHandler(cartStore, catalogRepo, cfg.RequestTimeout),
		Checkout: h.NewCheckoutHandler(cartStore, checkoutSvc, cfg.RequestTimeout),
		Products: h.NewProductHandler(catalogRepo, cfg.RequestTimeout),
		Settings: h.NewSettingsHandler(settingsSvc, cfg.RequestTimeout),
		Orders:   h.NewOrdersHandler(ordersRepo, cfg.RequestTimeout),
		Log:      logger,
		Timeout:  cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down storefront")
	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("storefront stopped")
}
