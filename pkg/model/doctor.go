package model

import (
	"time"
)

// Weekday keys for the working-hours map, lowercase English day names.
type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// WeekdayOf maps a calendar date ("2006-01-02") to its weekday key.
func WeekdayOf(date string) (Weekday, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", err
	}
	switch t.Weekday() {
	case time.Sunday:
		return Sunday, nil
	case time.Monday:
		return Monday, nil
	case time.Tuesday:
		return Tuesday, nil
	case time.Wednesday:
		return Wednesday, nil
	case time.Thursday:
		return Thursday, nil
	case time.Friday:
		return Friday, nil
	default:
		return Saturday, nil
	}
}

// DayHours is one weekday's bookable window, "HH:MM" bounds.
type DayHours struct {
	Start string `json:"start" bson:"start" validate:"required,clock_time"`
	End   string `json:"end" bson:"end" validate:"required,clock_time"`
}

// Doctor is the scheduling profile the appointments service reads.
// IsAvailable suspends all future bookings regardless of open slots;
// only the doctors service writes it.
type Doctor struct {
	ID              string               `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name            string               `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Specialty       string               `json:"specialty,omitempty" bson:"specialty,omitempty" validate:"omitempty,min=2,max=100"`
	Phone           string               `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	WorkingHours    map[Weekday]DayHours `json:"working_hours" bson:"working_hours" validate:"required,min=1,max=7,weekday_keys,dive"`
	SlotDurationMin int                  `json:"slot_duration_min" bson:"slot_duration_min" validate:"required,min=5,max=240"`
	IsAvailable     bool                 `json:"is_available" bson:"is_available"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time            `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type DoctorUpdate struct {
	Name            string                `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Specialty       string                `json:"specialty,omitempty" validate:"omitempty,min=2,max=100"`
	Phone           string                `json:"phone,omitempty" validate:"omitempty,e164"`
	WorkingHours    *map[Weekday]DayHours `json:"working_hours,omitempty" validate:"omitempty,min=1,max=7,weekday_keys,dive"`
	SlotDurationMin *int                  `json:"slot_duration_min,omitempty" validate:"omitempty,min=5,max=240"`
}

// AvailabilityToggle is the payload of the doctors service's
// availability switch endpoint.
type AvailabilityToggle struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}
