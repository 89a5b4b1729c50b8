package main

import (
	"carebook/internal/appointments/handler"
	"carebook/internal/appointments/repository"
	"carebook/internal/appointments/service"
	"carebook/internal/appointments/validator"
	"carebook/pkg/app"
	"carebook/pkg/config"
	"carebook/pkg/events"
	"carebook/pkg/kafka"
	kafka_config "carebook/pkg/kafka/config"
	kafka_middleware "carebook/pkg/kafka/middleware"
)

const ServiceName = "appointments"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Appointments service")
	appointmentService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAppointmentHandler(appointmentService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AppointmentService {
	appointmentValidator := validator.NewAppointmentValidator(cfg.Log)
	appointmentRepo := repository.NewMongoAppointmentRepository(cfg)
	lockRepo := repository.NewAppointmentLockRepository(cfg)
	doctorReader := repository.NewDoctorReader(cfg)

	appointmentService := service.NewAppointmentService(
		appointmentRepo,
		lockRepo,
		doctorReader,
		appointmentValidator,
		newEmitter(cfg),
		cfg,
	)

	cfg.Log.Info("Appointment service initialized", "database", cfg.MongoDatabaseName)
	return appointmentService
}

// newEmitter wires the Kafka-backed event emitter. A broken Kafka
// setup degrades to no events rather than blocking bookings.
func newEmitter(cfg *config.Config) events.Emitter {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, appointment events disabled", "error", err)
		return events.NopEmitter{}
	}

	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware())
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
	}

	return events.NewKafkaEmitter(producer, ServiceName, cfg.Log)
}
