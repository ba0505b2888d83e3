package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joao-fontenele/commerce-api/internal/config"
	"github.com/joao-fontenele/commerce-api/internal/domain"
	"github.com/joao-fontenele/commerce-api/internal/messaging"
	"github.com/joao-fontenele/commerce-api/internal/notifier"
	"github.com/joao-fontenele/commerce-api/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, logCloser := telemetry.NewLogger(cfg.Log)
	defer func() { _ = logCloser.Close() }()

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg.Telemetry.ServiceName = "order-notifier"
	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	var mailer notifier.Mailer
	if cfg.SMTP.Host != "" {
		mailer = notifier.NewSMTPMailer(cfg.SMTP)
	} else {
		logger.Info("SMTP_HOST not set, emails will only be logged")
		mailer = notifier.NewLogMailer(logger)
	}

	consumer := messaging.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic, cfg.Kafka.GroupID,
		messaging.WithEventTypes(domain.EventOrderPlaced),
		messaging.WithLogger(logger),
	)
	defer func() { _ = consumer.Close() }()

	orderNotifier := notifier.NewOrderNotifier(mailer, logger)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting order notifier", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.OrdersTopic)

	if err := consumer.Consume(ctx, orderNotifier.Handle); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
