package model

import "time"

// Notification is the in-app record written by the notifications
// consumer for each appointment lifecycle event. Delivery channels
// (push, email) are outside this system.
type Notification struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	AppointmentID string    `json:"appointment_id" bson:"appointment_id"`
	PatientID     string    `json:"patient_id" bson:"patient_id"`
	DoctorID      string    `json:"doctor_id" bson:"doctor_id"`
	EventType     string    `json:"event_type" bson:"event_type"`
	Message       string    `json:"message" bson:"message"`
	Read          bool      `json:"read" bson:"read"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
