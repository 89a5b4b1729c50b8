package validator

import (
	"io"
	"testing"

	"carebook/pkg/logger"
	"carebook/pkg/model"
)

func newTestValidator() *DoctorValidator {
	return NewDoctorValidator(logger.New(logger.Config{Output: io.Discard}))
}

func validDoctor() *model.Doctor {
	return &model.Doctor{
		Name: "Dr. Sarah Cohen",
		WorkingHours: map[model.Weekday]model.DayHours{
			model.Monday: {Start: "09:00", End: "17:00"},
		},
		SlotDurationMin: 30,
	}
}

func TestValidate_ValidDoctor(t *testing.T) {
	if err := newTestValidator().Validate(validDoctor()); err != nil {
		t.Fatalf("expected valid doctor, got %v", err)
	}
}

func TestValidate_InvalidDoctors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Doctor)
	}{
		{"empty name", func(d *model.Doctor) { d.Name = "" }},
		{"single char name", func(d *model.Doctor) { d.Name = "D" }},
		{"no working hours", func(d *model.Doctor) { d.WorkingHours = nil }},
		{"unknown weekday key", func(d *model.Doctor) {
			d.WorkingHours["funday"] = model.DayHours{Start: "09:00", End: "17:00"}
		}},
		{"unpadded start time", func(d *model.Doctor) {
			d.WorkingHours[model.Monday] = model.DayHours{Start: "9:00", End: "17:00"}
		}},
		{"out of range hour", func(d *model.Doctor) {
			d.WorkingHours[model.Monday] = model.DayHours{Start: "09:00", End: "25:00"}
		}},
		{"inverted window", func(d *model.Doctor) {
			d.WorkingHours[model.Monday] = model.DayHours{Start: "17:00", End: "09:00"}
		}},
		{"empty window", func(d *model.Doctor) {
			d.WorkingHours[model.Monday] = model.DayHours{Start: "09:00", End: "09:00"}
		}},
		{"slot duration too short", func(d *model.Doctor) { d.SlotDurationMin = 3 }},
		{"slot duration too long", func(d *model.Doctor) { d.SlotDurationMin = 300 }},
		{"bad phone", func(d *model.Doctor) { d.Phone = "not-a-phone" }},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doctor := validDoctor()
			tt.mutate(doctor)
			if err := v.Validate(doctor); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestValidateUpdate_PartialPayload(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateUpdate(&model.DoctorUpdate{Specialty: "pediatrics"}); err != nil {
		t.Fatalf("partial update should validate, got %v", err)
	}

	hours := map[model.Weekday]model.DayHours{
		model.Friday: {Start: "10:00", End: "08:00"},
	}
	if err := v.ValidateUpdate(&model.DoctorUpdate{WorkingHours: &hours}); err == nil {
		t.Fatal("expected validation error for inverted window in update")
	}
}

func TestValidateToggle(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateToggle(&model.AvailabilityToggle{}); err == nil {
		t.Fatal("expected validation error for missing is_available")
	}

	available := false
	if err := v.ValidateToggle(&model.AvailabilityToggle{IsAvailable: &available}); err != nil {
		t.Fatalf("expected valid toggle, got %v", err)
	}
}
