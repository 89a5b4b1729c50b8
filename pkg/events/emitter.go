package events

import (
	"context"
	"time"

	"carebook/pkg/kafka"
	"carebook/pkg/logger"
)

// Emitter publishes appointment events. Implementations must be safe
// for concurrent use.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Publisher is the subset of the Kafka producer the emitter needs.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaEmitter publishes events to Kafka, keyed by appointment ID so
// events for one appointment land on the same partition in order.
type KafkaEmitter struct {
	publisher Publisher
	source    string
	log       *logger.Logger
}

func NewKafkaEmitter(publisher Publisher, source string, log *logger.Logger) *KafkaEmitter {
	return &KafkaEmitter{
		publisher: publisher,
		source:    source,
		log:       log,
	}
}

func (e *KafkaEmitter) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	msg := kafka.NewMessage().
		WithKey(event.AppointmentID).
		WithValue(event).
		WithEventType(event.Type).
		WithSchemaVersion(SchemaVersion).
		WithSource(e.source).
		Build()

	if err := e.publisher.Publish(ctx, msg); err != nil {
		e.log.Error("Failed to publish appointment event",
			"event_type", event.Type,
			"appointment_id", event.AppointmentID,
			"error", err,
		)
		return err
	}

	e.log.Debug("Published appointment event",
		"event_type", event.Type,
		"appointment_id", event.AppointmentID,
	)

	return nil
}

// NopEmitter discards events. Used when eventing is disabled and in
// tests that don't care about notifications.
type NopEmitter struct{}

func (NopEmitter) Emit(ctx context.Context, event Event) error { return nil }
