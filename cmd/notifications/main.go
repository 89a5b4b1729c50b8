package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"carebook/internal/notifications/repository"
	"carebook/internal/notifications/service"
	"carebook/pkg/config"
	"carebook/pkg/kafka"
	kafka_config "carebook/pkg/kafka/config"
	kafka_middleware "carebook/pkg/kafka/middleware"
)

const (
	ServiceName     = "notifications"
	ConsumerGroupID = "notifications-service"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Notifications consumer")

	notificationRepo := repository.NewMongoNotificationRepository(cfg)
	notificationService := service.NewNotificationService(notificationRepo, cfg)

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.EventsTopic,
		ConsumerGroupID,
		cfg.EventsDLQTopic,
		notificationService.HandleEvent,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware())
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware())
	}

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Consuming appointment events",
		"topic", cfg.EventsTopic,
		"group_id", ConsumerGroupID,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	cfg.Log.Info("Notifications consumer stopped gracefully")
}
