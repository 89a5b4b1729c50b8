package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "carebook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDefaultSlotDurationMin = 30
	DefaultDefaultStartOfDay      = "09:00"
	DefaultDefaultEndOfDay        = "17:00"

	DefaultPatientOverlapPolicy = PatientOverlapAllow

	DefaultReminderLeadTime = 24 * time.Hour
	DefaultReminderWindow   = 1 * time.Hour
	DefaultReminderCronSpec = "@hourly"

	DefaultEventsTopic    = "appointment-events"
	DefaultEventsDLQTopic = "appointment-events-dlq"

	DefaultPaginationLimit = 100
)

var DefaultDefaultWorkingDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
