package model

import (
	"time"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCheckedIn AppointmentStatus = "checked_in"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeFollowUp     AppointmentType = "follow_up"
	TypeEmergency    AppointmentType = "emergency"
	TypeCheckup      AppointmentType = "checkup"
)

// statusTransitions is the forward edge set of the appointment state
// machine. Cancellation is handled separately: it is legal from every
// non-terminal state.
var statusTransitions = map[AppointmentStatus]AppointmentStatus{
	StatusScheduled: StatusConfirmed,
	StatusConfirmed: StatusCheckedIn,
	StatusCheckedIn: StatusCompleted,
}

func CanTransition(from, to AppointmentStatus) bool {
	if to == StatusCancelled {
		return from == StatusScheduled || from == StatusConfirmed || from == StatusCheckedIn
	}
	return statusTransitions[from] == to
}

func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ActiveStatuses are the statuses that hold a doctor's slot. Two
// appointments with active status must never overlap for one doctor.
func ActiveStatuses() []AppointmentStatus {
	return []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusCheckedIn}
}

// NonCancelledStatuses are the statuses that make a slot unavailable
// in the availability listing, including completed visits.
func NonCancelledStatuses() []AppointmentStatus {
	return []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusCheckedIn, StatusCompleted}
}

// Appointment is a booked slot for a patient with a doctor. Date is a
// calendar date ("2006-01-02"); StartTime and EndTime are zero-padded
// wall-clock bounds ("HH:MM"), half-open [StartTime, EndTime).
type Appointment struct {
	ID            string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PatientID     string            `json:"patient_id" bson:"patient_id" validate:"required,min=1,max=64"`
	DoctorID      string            `json:"doctor_id" bson:"doctor_id" validate:"required,mongodb"`
	Date          string            `json:"date" bson:"date" validate:"required,calendar_date"`
	StartTime     string            `json:"start_time" bson:"start_time" validate:"required,clock_time"`
	EndTime       string            `json:"end_time" bson:"end_time" validate:"required,clock_time"`
	Type          AppointmentType   `json:"type" bson:"type" validate:"required,oneof=consultation follow_up emergency checkup"`
	Status        AppointmentStatus `json:"status" bson:"status" validate:"required,oneof=scheduled confirmed checked_in completed cancelled"`
	PaymentStatus PaymentStatus     `json:"payment_status" bson:"payment_status" validate:"required,oneof=unpaid paid"`
	Reason        string            `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=500"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time         `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

func (a *Appointment) Active() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed || a.Status == StatusCheckedIn
}

// CreateAppointmentRequest is the typed booking payload. EndTime is
// never client-supplied; it is derived from the doctor's slot duration.
type CreateAppointmentRequest struct {
	PatientID string          `json:"patient_id" validate:"required,min=1,max=64"`
	DoctorID  string          `json:"doctor_id" validate:"required,mongodb"`
	Date      string          `json:"date" validate:"required,calendar_date"`
	StartTime string          `json:"start_time" validate:"required,clock_time"`
	Type      AppointmentType `json:"type" validate:"required,oneof=consultation follow_up emergency checkup"`
	Reason    string          `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ActorRequest carries the optional acting identity on cancel/delete,
// used for audit logging and the cancellation event.
type ActorRequest struct {
	Actor string `json:"actor,omitempty" validate:"omitempty,max=64"`
}
