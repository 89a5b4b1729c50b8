package testutil

import (
	"time"

	"carebook/pkg/model"
)

type DoctorBuilder struct {
	doctor model.Doctor
}

// NewDoctorBuilder starts from a doctor working weekday mornings,
// 09:00 to 12:00 in half-hour slots.
func NewDoctorBuilder() *DoctorBuilder {
	morning := model.DayHours{Start: "09:00", End: "12:00"}
	return &DoctorBuilder{
		doctor: model.Doctor{
			Name:      "Test Doctor",
			Specialty: "cardiology",
			Phone:     "+972501234567",
			WorkingHours: map[model.Weekday]model.DayHours{
				model.Monday:    morning,
				model.Tuesday:   morning,
				model.Wednesday: morning,
				model.Thursday:  morning,
				model.Friday:    morning,
			},
			SlotDurationMin: 30,
			IsAvailable:     true,
		},
	}
}

func (b *DoctorBuilder) WithName(name string) *DoctorBuilder {
	b.doctor.Name = name
	return b
}

func (b *DoctorBuilder) WithSpecialty(specialty string) *DoctorBuilder {
	b.doctor.Specialty = specialty
	return b
}

func (b *DoctorBuilder) WithWorkingHours(hours map[model.Weekday]model.DayHours) *DoctorBuilder {
	b.doctor.WorkingHours = hours
	return b
}

func (b *DoctorBuilder) WithSlotDuration(minutes int) *DoctorBuilder {
	b.doctor.SlotDurationMin = minutes
	return b
}

func (b *DoctorBuilder) Unavailable() *DoctorBuilder {
	b.doctor.IsAvailable = false
	return b
}

func (b *DoctorBuilder) Build() model.Doctor {
	return b.doctor
}

// NextDate returns the next future calendar date falling on the given
// weekday, at least one day out so bookings never land on today.
func NextDate(day time.Weekday) string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}
