package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	doctorserrors "carebook/internal/doctors/errors"
	"carebook/internal/doctors/repository"
	"carebook/internal/doctors/validator"
	"carebook/pkg/config"
	apperrors "carebook/pkg/errors"
	"carebook/pkg/model"
	"carebook/pkg/sanitizer"
)

type DoctorService interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	GetByID(ctx context.Context, id string) (*model.Doctor, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Doctor, int64, error)
	GetBySpecialty(ctx context.Context, specialty string) ([]*model.Doctor, error)
	Update(ctx context.Context, id string, updates *model.DoctorUpdate) (*model.Doctor, error)
	SetAvailability(ctx context.Context, id string, available bool) (*model.Doctor, error)
	Delete(ctx context.Context, id string) error
}

type doctorService struct {
	repo      repository.DoctorRepository
	validator *validator.DoctorValidator
	cfg       *config.Config
}

func NewDoctorService(
	repo repository.DoctorRepository,
	validator *validator.DoctorValidator,
	cfg *config.Config,
) DoctorService {
	return &doctorService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *doctorService) Create(ctx context.Context, doctor *model.Doctor) error {
	s.sanitize(doctor)
	s.applyDefaultsForNewDoctor(doctor)

	if err := s.validator.Validate(doctor); err != nil {
		s.cfg.Log.Warn("Doctor validation failed", "name", doctor.Name, "error", err)
		return apperrors.Validation("Doctor validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		s.cfg.Log.Error("Failed to create doctor", "name", doctor.Name, "error", err)
		return s.storeErr("create doctor", err)
	}

	s.cfg.Log.Info("Doctor created successfully",
		"id", doctor.ID,
		"name", doctor.Name,
		"specialty", doctor.Specialty,
		"slot_duration_min", doctor.SlotDurationMin,
	)

	return nil
}

func (s *doctorService) GetByID(ctx context.Context, id string) (*model.Doctor, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Doctor ID cannot be empty")
	}

	doctor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(id, err)
	}

	return doctor, nil
}

func (s *doctorService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Doctor, int64, error) {
	var count int64
	var doctors []*model.Doctor
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count doctors", "error", errCount)
			errCount = s.storeErr("count doctors", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		doctors, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list doctors", "limit", limit, "offset", offset, "error", errFind)
			errFind = s.storeErr("list doctors", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return doctors, count, nil
}

func (s *doctorService) GetBySpecialty(ctx context.Context, specialty string) ([]*model.Doctor, error) {
	specialty = sanitizer.NormalizeSpecialty(specialty)
	if specialty == "" {
		return nil, apperrors.InvalidInput("Specialty cannot be empty")
	}

	doctors, err := s.repo.FindBySpecialty(ctx, specialty)
	if err != nil {
		s.cfg.Log.Error("Failed to find doctors by specialty", "specialty", specialty, "error", err)
		return nil, s.storeErr("find doctors by specialty", err)
	}

	return doctors, nil
}

func (s *doctorService) Update(ctx context.Context, id string, updates *model.DoctorUpdate) (*model.Doctor, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Doctor ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(id, err)
	}

	s.sanitizeUpdate(updates)
	merged := s.mergeDoctorUpdates(existing, updates)

	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Doctor validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Doctor validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update doctor", "id", id, "error", err)
		return nil, s.lookupErr(id, err)
	}

	s.cfg.Log.Info("Doctor updated successfully", "id", id, "name", merged.Name)
	return merged, nil
}

func (s *doctorService) SetAvailability(ctx context.Context, id string, available bool) (*model.Doctor, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Doctor ID cannot be empty")
	}

	doctor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(id, err)
	}

	if doctor.IsAvailable == available {
		s.cfg.Log.Info("Doctor availability unchanged", "id", id, "is_available", available)
		return doctor, nil
	}

	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		s.cfg.Log.Error("Failed to set doctor availability", "id", id, "error", err)
		return nil, s.lookupErr(id, err)
	}

	doctor.IsAvailable = available
	s.cfg.Log.Info("Doctor availability updated", "id", id, "is_available", available)
	return doctor, nil
}

func (s *doctorService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Doctor ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to delete doctor", "id", id, "error", err)
		return s.lookupErr(id, err)
	}

	s.cfg.Log.Info("Doctor deleted successfully", "id", id)
	return nil
}

func (s *doctorService) sanitize(doctor *model.Doctor) {
	doctor.Name = sanitizer.NormalizeName(doctor.Name)
	doctor.Specialty = sanitizer.NormalizeSpecialty(doctor.Specialty)
	doctor.Phone = sanitizer.NormalizePhone(doctor.Phone)
}

func (s *doctorService) sanitizeUpdate(updates *model.DoctorUpdate) {
	if updates.Name != "" {
		updates.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.Specialty != "" {
		updates.Specialty = sanitizer.NormalizeSpecialty(updates.Specialty)
	}
	if updates.Phone != "" {
		updates.Phone = sanitizer.NormalizePhone(updates.Phone)
	}
}

// applyDefaultsForNewDoctor fills the scheduling profile from the
// deployment defaults: weekday working hours and the standard slot
// duration. New doctors are bookable unless stated otherwise.
func (s *doctorService) applyDefaultsForNewDoctor(doctor *model.Doctor) {
	if doctor.SlotDurationMin == 0 {
		doctor.SlotDurationMin = s.cfg.DefaultSlotDurationMin
	}

	if len(doctor.WorkingHours) == 0 {
		hours := make(map[model.Weekday]model.DayHours, len(s.cfg.DefaultWorkingDays))
		for _, day := range s.cfg.DefaultWorkingDays {
			hours[model.Weekday(day)] = model.DayHours{
				Start: s.cfg.DefaultStartOfDay,
				End:   s.cfg.DefaultEndOfDay,
			}
		}
		doctor.WorkingHours = hours
	}

	doctor.IsAvailable = true
}

func (s *doctorService) mergeDoctorUpdates(existing *model.Doctor, updates *model.DoctorUpdate) *model.Doctor {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Specialty != "" {
		merged.Specialty = updates.Specialty
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.WorkingHours != nil {
		merged.WorkingHours = *updates.WorkingHours
	}
	if updates.SlotDurationMin != nil {
		merged.SlotDurationMin = *updates.SlotDurationMin
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt

	return &merged
}

func (s *doctorService) lookupErr(id string, err error) error {
	switch {
	case errors.Is(err, doctorserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Doctor", id)
	case errors.Is(err, doctorserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid doctor ID format")
	default:
		return s.storeErr("retrieve doctor", err)
	}
}

func (s *doctorService) storeErr(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.PersistenceTimeout(operation)
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(fmt.Sprintf("Failed to %s", operation), err)
}
