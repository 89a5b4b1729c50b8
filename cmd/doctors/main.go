package main

import (
	"carebook/internal/doctors/handler"
	"carebook/internal/doctors/repository"
	"carebook/internal/doctors/service"
	"carebook/internal/doctors/validator"
	"carebook/pkg/app"
	"carebook/pkg/config"
)

const ServiceName = "doctors"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Doctors service")
	doctorService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewDoctorHandler(doctorService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.DoctorService {
	doctorValidator := validator.NewDoctorValidator(cfg.Log)
	doctorRepo := repository.NewMongoDoctorRepository(cfg)
	doctorService := service.NewDoctorService(
		doctorRepo,
		doctorValidator,
		cfg,
	)

	cfg.Log.Info("Doctor service initialized", "database", cfg.MongoDatabaseName)
	return doctorService
}
