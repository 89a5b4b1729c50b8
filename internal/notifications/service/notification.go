package service

import (
	"context"
	"fmt"

	"carebook/internal/notifications/repository"
	"carebook/pkg/config"
	"carebook/pkg/events"
	"carebook/pkg/kafka"
	"carebook/pkg/model"
)

// NotificationService consumes appointment lifecycle events and writes
// one in-app notification record per event. Delivery channels (push,
// email) are outside this system.
type NotificationService struct {
	repo repository.NotificationRepository
	cfg  *config.Config
}

func NewNotificationService(repo repository.NotificationRepository, cfg *config.Config) *NotificationService {
	return &NotificationService{
		repo: repo,
		cfg:  cfg,
	}
}

// HandleEvent is the Kafka message handler. Unknown event types are
// logged and skipped without error so they are committed, not retried.
func (s *NotificationService) HandleEvent(ctx context.Context, msg kafka.Message) error {
	var event events.Event
	if err := msg.DecodeValue(&event); err != nil {
		s.cfg.Log.Error("Failed to decode appointment event",
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"error", err,
		)
		return fmt.Errorf("failed to decode appointment event: %w", err)
	}

	message, ok := s.messageFor(event)
	if !ok {
		s.cfg.Log.Warn("Skipping unknown event type",
			"event_id", msg.GetEventID(),
			"event_type", event.Type,
		)
		return nil
	}

	notification := &model.Notification{
		AppointmentID: event.AppointmentID,
		PatientID:     event.PatientID,
		DoctorID:      event.DoctorID,
		EventType:     event.Type,
		Message:       message,
	}

	if err := s.repo.Insert(ctx, notification); err != nil {
		s.cfg.Log.Error("Failed to store notification",
			"appointment_id", event.AppointmentID,
			"event_type", event.Type,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Notification stored",
		"id", notification.ID,
		"appointment_id", event.AppointmentID,
		"patient_id", event.PatientID,
		"event_type", event.Type,
	)

	return nil
}

func (s *NotificationService) messageFor(event events.Event) (string, bool) {
	switch event.Type {
	case events.TypeBooked:
		return fmt.Sprintf("Your appointment on %s at %s has been booked.", event.Date, event.StartTime), true
	case events.TypeConfirmed:
		return fmt.Sprintf("Your appointment on %s at %s is confirmed.", event.Date, event.StartTime), true
	case events.TypeCheckedIn:
		return fmt.Sprintf("You are checked in for your appointment at %s.", event.StartTime), true
	case events.TypeCompleted:
		return fmt.Sprintf("Your appointment on %s has been completed.", event.Date), true
	case events.TypeCancelled:
		return fmt.Sprintf("Your appointment on %s at %s was cancelled.", event.Date, event.StartTime), true
	case events.TypePaid:
		return fmt.Sprintf("Payment received for your appointment on %s.", event.Date), true
	case events.TypeReminderDue:
		return fmt.Sprintf("Reminder: you have an appointment on %s at %s.", event.Date, event.StartTime), true
	default:
		return "", false
	}
}
