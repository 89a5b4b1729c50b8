package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	appointmentsrepo "carebook/internal/appointments/repository"
	"carebook/internal/reminders/service"
	"carebook/pkg/config"
	"carebook/pkg/events"
	"carebook/pkg/kafka"
	kafka_config "carebook/pkg/kafka/config"
	kafka_middleware "carebook/pkg/kafka/middleware"

	"github.com/robfig/cron/v3"
)

const ServiceName = "reminders"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reminders job", "cron_spec", cfg.ReminderCronSpec)

	appointmentRepo := appointmentsrepo.NewMongoAppointmentRepository(cfg)
	reminderService := service.NewReminderService(appointmentRepo, newEmitter(cfg), cfg)

	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.ReminderCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()
		if err := reminderService.Scan(ctx); err != nil {
			cfg.Log.Error("Reminder scan failed", "error", err)
		}
	})
	if err != nil {
		cfg.Log.Fatal("Invalid reminder cron spec", "cron_spec", cfg.ReminderCronSpec, "error", err)
	}

	scheduler.Start()
	cfg.Log.Info("Reminder scheduler started",
		"lead_time", cfg.ReminderLeadTime,
		"window", cfg.ReminderWindow,
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	cfg.Log.Info("Shutdown signal received", "signal", sig)

	// Stop returns a context that is done once running jobs finish.
	<-scheduler.Stop().Done()
	cfg.Log.Info("Reminders job stopped gracefully")
}

func newEmitter(cfg *config.Config) events.Emitter {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware())
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
	}

	return events.NewKafkaEmitter(producer, ServiceName, cfg.Log)
}
