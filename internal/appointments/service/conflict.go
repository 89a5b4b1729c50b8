package service

import (
	"context"
	"fmt"

	apperrors "carebook/pkg/errors"
	"carebook/pkg/model"

	"carebook/internal/appointments/availability"
	"carebook/pkg/config"
)

// verifyNoConflict re-checks the slot against committed state inside
// the booking transaction. Both checks use half-open interval overlap:
// back-to-back appointments never conflict.
func (s *appointmentService) verifyNoConflict(ctx context.Context, appointment *model.Appointment) error {
	existing, err := s.repo.FindByDoctorAndDate(ctx, appointment.DoctorID, appointment.Date, model.ActiveStatuses())
	if err != nil {
		return s.storeErr("check existing appointments", err)
	}

	for _, a := range existing {
		if availability.Overlaps(a.StartTime, a.EndTime, appointment.StartTime, appointment.EndTime) {
			return apperrors.SlotUnavailable(fmt.Sprintf(
				"slot overlaps an existing appointment (%s-%s)", a.StartTime, a.EndTime))
		}
	}

	if s.cfg.PatientOverlapPolicy == config.PatientOverlapReject {
		if err := s.verifyPatientFree(ctx, appointment); err != nil {
			return err
		}
	}

	return nil
}

// verifyPatientFree enforces the strict deployment policy that one
// patient cannot hold two overlapping appointments, even with
// different doctors.
func (s *appointmentService) verifyPatientFree(ctx context.Context, appointment *model.Appointment) error {
	existing, err := s.repo.FindActiveByPatientAndDate(ctx, appointment.PatientID, appointment.Date)
	if err != nil {
		return s.storeErr("check patient appointments", err)
	}

	for _, a := range existing {
		if a.ID == appointment.ID {
			continue
		}
		if availability.Overlaps(a.StartTime, a.EndTime, appointment.StartTime, appointment.EndTime) {
			return apperrors.SlotUnavailable(fmt.Sprintf(
				"patient already has an overlapping appointment (%s-%s)", a.StartTime, a.EndTime))
		}
	}

	return nil
}
