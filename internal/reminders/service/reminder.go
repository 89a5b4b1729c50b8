package service

import (
	"context"
	"time"

	"carebook/pkg/config"
	"carebook/pkg/events"
	"carebook/pkg/model"
)

// UpcomingFinder is the slice of the appointments repository the
// reminder scanner needs.
type UpcomingFinder interface {
	FindUpcoming(ctx context.Context, date, fromTime, toTime string, statuses []model.AppointmentStatus) ([]*model.Appointment, error)
}

// ReminderService periodically scans for appointments starting about
// one lead time from now and emits a reminder event for each. Emission
// is at-least-once: a rerun over the same window may emit duplicates,
// which downstream consumers tolerate.
type ReminderService struct {
	repo    UpcomingFinder
	emitter events.Emitter
	cfg     *config.Config
	now     func() time.Time
}

func NewReminderService(repo UpcomingFinder, emitter events.Emitter, cfg *config.Config) *ReminderService {
	return &ReminderService{
		repo:    repo,
		emitter: emitter,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Scan finds appointments starting in [now+lead, now+lead+window) and
// emits appointment.reminder_due for the still-active ones. The window
// may cross midnight, in which case it splits into two date queries.
func (s *ReminderService) Scan(ctx context.Context) error {
	from := s.now().Add(s.cfg.ReminderLeadTime)
	to := from.Add(s.cfg.ReminderWindow)

	appointments, err := s.findInWindow(ctx, from, to)
	if err != nil {
		s.cfg.Log.Error("Reminder scan failed", "error", err)
		return err
	}

	emitted := 0
	for _, appointment := range appointments {
		if err := s.emitter.Emit(ctx, events.Event{
			Type:          events.TypeReminderDue,
			AppointmentID: appointment.ID,
			PatientID:     appointment.PatientID,
			DoctorID:      appointment.DoctorID,
			Date:          appointment.Date,
			StartTime:     appointment.StartTime,
			EndTime:       appointment.EndTime,
			Timestamp:     s.now(),
		}); err != nil {
			s.cfg.Log.Error("Failed to emit reminder",
				"appointment_id", appointment.ID,
				"date", appointment.Date,
				"start_time", appointment.StartTime,
				"error", err,
			)
			continue
		}
		emitted++
	}

	s.cfg.Log.Info("Reminder scan completed",
		"window_from", from.Format(time.RFC3339),
		"window_to", to.Format(time.RFC3339),
		"matched", len(appointments),
		"emitted", emitted,
	)

	return nil
}

// reminderStatuses: completed, cancelled, and in-progress visits get no
// reminder.
func reminderStatuses() []model.AppointmentStatus {
	return []model.AppointmentStatus{model.StatusScheduled, model.StatusConfirmed}
}

func (s *ReminderService) findInWindow(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	fromDate := from.Format("2006-01-02")
	toDate := to.Format("2006-01-02")

	if fromDate == toDate {
		return s.repo.FindUpcoming(ctx, fromDate, from.Format("15:04"), to.Format("15:04"), reminderStatuses())
	}

	// Window crosses midnight: rest of the first day, start of the next.
	first, err := s.repo.FindUpcoming(ctx, fromDate, from.Format("15:04"), "24:00", reminderStatuses())
	if err != nil {
		return nil, err
	}

	second, err := s.repo.FindUpcoming(ctx, toDate, "00:00", to.Format("15:04"), reminderStatuses())
	if err != nil {
		return nil, err
	}

	return append(first, second...), nil
}
