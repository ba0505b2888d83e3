package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/joao-fontenele/commerce-api/internal/accounts"
	"github.com/joao-fontenele/commerce-api/internal/auth"
	"github.com/joao-fontenele/commerce-api/internal/catalog"
	"github.com/joao-fontenele/commerce-api/internal/config"
	"github.com/joao-fontenele/commerce-api/internal/domain"
	"github.com/joao-fontenele/commerce-api/internal/messaging"
	"github.com/joao-fontenele/commerce-api/internal/orders"
	"github.com/joao-fontenele/commerce-api/internal/server"
	"github.com/joao-fontenele/commerce-api/internal/telemetry"
	"github.com/joao-fontenele/commerce-api/migrations"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, logCloser := telemetry.NewLogger(cfg.Log)
	defer func() { _ = logCloser.Close() }()

	if cfg.Database.URL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.Telemetry)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(cfg.Database.MigrationsPath, cfg.Database.URL); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	db, err := telemetry.OpenDB("postgres", telemetry.WithSearchPath(cfg.Database.URL, cfg.Database.SearchPath))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var publisher orders.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic, domain.EventOrderPlaced)
		defer func() { _ = producer.Close() }()
		publisher = producer
	} else {
		logger.Info("KAFKA_BROKERS not set, order events are disabled")
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	accountService := accounts.NewService(accounts.NewUserRepository(db), hasher, tokens, logger)
	catalogService := catalog.NewService(catalog.NewProductRepository(db), logger)
	orderService := orders.NewService(orders.NewOrderRepository(db), publisher, logger)

	handler := server.New(server.Dependencies{
		Accounts:    accounts.NewHandler(accountService, logger),
		Catalog:     catalog.NewHandler(catalogService, logger),
		Orders:      orders.NewHandler(orderService, logger),
		Tokens:      tokens,
		Metrics:     metricsHandler,
		Health:      db.PingContext,
		ServiceName: cfg.Telemetry.ServiceName,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("starting commerce api", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
