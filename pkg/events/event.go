package events

import "time"

// Event types published to the appointment events topic.
const (
	TypeBooked      = "appointment.booked"
	TypeConfirmed   = "appointment.confirmed"
	TypeCheckedIn   = "appointment.checked_in"
	TypeCompleted   = "appointment.completed"
	TypeCancelled   = "appointment.cancelled"
	TypePaid        = "appointment.paid"
	TypeReminderDue = "appointment.reminder_due"
)

// SchemaVersion is stamped on every published event so consumers can
// handle payload evolution.
const SchemaVersion = "1"

// Event is the payload published after an appointment changes state.
// Events are emitted only after the change has been committed.
type Event struct {
	Type          string    `json:"type"`
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	DoctorID      string    `json:"doctor_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time,omitempty"`
	Actor         string    `json:"actor,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
