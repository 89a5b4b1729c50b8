package service

import (
	"context"
	"io"
	"testing"

	doctorserrors "carebook/internal/doctors/errors"
	"carebook/internal/doctors/validator"
	"carebook/pkg/config"
	apperrors "carebook/pkg/errors"
	"carebook/pkg/logger"
	"carebook/pkg/model"
)

const testDoctorID = "507f1f77bcf86cd799439011"

type mockDoctorRepo struct {
	createFn          func(ctx context.Context, doctor *model.Doctor) error
	findByIDFn        func(ctx context.Context, id string) (*model.Doctor, error)
	findAllFn         func(ctx context.Context, limit int, offset int64) ([]*model.Doctor, error)
	findBySpecialtyFn func(ctx context.Context, specialty string) ([]*model.Doctor, error)
	countFn           func(ctx context.Context) (int64, error)
	updateFn          func(ctx context.Context, id string, doctor *model.Doctor) error
	setAvailabilityFn func(ctx context.Context, id string, available bool) error
	deleteFn          func(ctx context.Context, id string) error
}

func (m *mockDoctorRepo) Create(ctx context.Context, doctor *model.Doctor) error {
	return m.createFn(ctx, doctor)
}

func (m *mockDoctorRepo) FindByID(ctx context.Context, id string) (*model.Doctor, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockDoctorRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Doctor, error) {
	return m.findAllFn(ctx, limit, offset)
}

func (m *mockDoctorRepo) FindBySpecialty(ctx context.Context, specialty string) ([]*model.Doctor, error) {
	return m.findBySpecialtyFn(ctx, specialty)
}

func (m *mockDoctorRepo) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func (m *mockDoctorRepo) Update(ctx context.Context, id string, doctor *model.Doctor) error {
	return m.updateFn(ctx, id, doctor)
}

func (m *mockDoctorRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	return m.setAvailabilityFn(ctx, id, available)
}

func (m *mockDoctorRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultSlotDurationMin: 30,
		DefaultStartOfDay:      "09:00",
		DefaultEndOfDay:        "17:00",
		DefaultWorkingDays:     []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		Log:                    logger.New(logger.Config{Output: io.Discard}),
	}
}

func newService(repo *mockDoctorRepo, cfg *config.Config) DoctorService {
	if cfg == nil {
		cfg = testConfig()
	}
	return NewDoctorService(repo, validator.NewDoctorValidator(cfg.Log), cfg)
}

func TestCreate_AppliesDefaults(t *testing.T) {
	var stored *model.Doctor
	repo := &mockDoctorRepo{
		createFn: func(ctx context.Context, doctor *model.Doctor) error {
			doctor.ID = testDoctorID
			stored = doctor
			return nil
		},
	}

	svc := newService(repo, nil)

	doctor := &model.Doctor{Name: "  Dr.  Sarah   Cohen "}
	if err := svc.Create(context.Background(), doctor); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if stored.Name != "Dr. Sarah Cohen" {
		t.Errorf("expected normalized name, got %q", stored.Name)
	}
	if stored.SlotDurationMin != 30 {
		t.Errorf("expected default slot duration 30, got %d", stored.SlotDurationMin)
	}
	if len(stored.WorkingHours) != 5 {
		t.Fatalf("expected 5 default working days, got %d", len(stored.WorkingHours))
	}
	if hours := stored.WorkingHours[model.Monday]; hours.Start != "09:00" || hours.End != "17:00" {
		t.Errorf("expected default monday window 09:00-17:00, got %+v", hours)
	}
	if _, ok := stored.WorkingHours[model.Saturday]; ok {
		t.Error("saturday should not be a default working day")
	}
	if !stored.IsAvailable {
		t.Error("new doctors must start available")
	}
}

func TestCreate_KeepsExplicitSchedule(t *testing.T) {
	var stored *model.Doctor
	repo := &mockDoctorRepo{
		createFn: func(ctx context.Context, doctor *model.Doctor) error {
			stored = doctor
			return nil
		},
	}

	svc := newService(repo, nil)

	doctor := &model.Doctor{
		Name: "Dr. David Levi",
		WorkingHours: map[model.Weekday]model.DayHours{
			model.Sunday: {Start: "08:00", End: "14:00"},
		},
		SlotDurationMin: 20,
	}
	if err := svc.Create(context.Background(), doctor); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if stored.SlotDurationMin != 20 {
		t.Errorf("explicit slot duration overwritten: %d", stored.SlotDurationMin)
	}
	if len(stored.WorkingHours) != 1 {
		t.Errorf("explicit working hours overwritten: %+v", stored.WorkingHours)
	}
}

func TestCreate_InvalidWindowRejected(t *testing.T) {
	svc := newService(&mockDoctorRepo{}, nil)

	doctor := &model.Doctor{
		Name: "Dr. David Levi",
		WorkingHours: map[model.Weekday]model.DayHours{
			model.Monday: {Start: "14:00", End: "09:00"},
		},
	}

	err := svc.Create(context.Background(), doctor)
	if err == nil {
		t.Fatal("expected validation error for inverted window")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", appErr.Code)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockDoctorRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return nil, doctorserrors.ErrNotFound
		},
	}

	svc := newService(repo, nil)

	_, err := svc.GetByID(context.Background(), testDoctorID)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdate_MergesPartialFields(t *testing.T) {
	existing := &model.Doctor{
		ID:        testDoctorID,
		Name:      "Dr. Sarah Cohen",
		Specialty: "cardiology",
		WorkingHours: map[model.Weekday]model.DayHours{
			model.Monday: {Start: "09:00", End: "17:00"},
		},
		SlotDurationMin: 30,
		IsAvailable:     true,
	}

	var updated *model.Doctor
	repo := &mockDoctorRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			copy := *existing
			return &copy, nil
		},
		updateFn: func(ctx context.Context, id string, doctor *model.Doctor) error {
			updated = doctor
			return nil
		},
	}

	svc := newService(repo, nil)

	slotDuration := 15
	doctor, err := svc.Update(context.Background(), testDoctorID, &model.DoctorUpdate{
		Specialty:       "  Pediatrics ",
		SlotDurationMin: &slotDuration,
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	if doctor.Name != "Dr. Sarah Cohen" {
		t.Errorf("untouched field changed: %q", doctor.Name)
	}
	if doctor.Specialty != "pediatrics" {
		t.Errorf("expected normalized specialty, got %q", doctor.Specialty)
	}
	if updated.SlotDurationMin != 15 {
		t.Errorf("expected slot duration 15, got %d", updated.SlotDurationMin)
	}
}

func TestSetAvailability_Toggle(t *testing.T) {
	calls := 0
	repo := &mockDoctorRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return &model.Doctor{ID: testDoctorID, Name: "Dr. Sarah Cohen", IsAvailable: true}, nil
		},
		setAvailabilityFn: func(ctx context.Context, id string, available bool) error {
			calls++
			if available {
				t.Error("expected suspension write")
			}
			return nil
		},
	}

	svc := newService(repo, nil)

	doctor, err := svc.SetAvailability(context.Background(), testDoctorID, false)
	if err != nil {
		t.Fatalf("SetAvailability() error: %v", err)
	}
	if doctor.IsAvailable {
		t.Error("expected doctor suspended")
	}
	if calls != 1 {
		t.Errorf("expected one availability write, got %d", calls)
	}
}

func TestSetAvailability_NoopWhenUnchanged(t *testing.T) {
	repo := &mockDoctorRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return &model.Doctor{ID: testDoctorID, Name: "Dr. Sarah Cohen", IsAvailable: true}, nil
		},
		setAvailabilityFn: func(ctx context.Context, id string, available bool) error {
			t.Error("no write expected when availability is unchanged")
			return nil
		},
	}

	svc := newService(repo, nil)

	if _, err := svc.SetAvailability(context.Background(), testDoctorID, true); err != nil {
		t.Fatalf("SetAvailability() error: %v", err)
	}
}

func TestGetBySpecialty_Normalizes(t *testing.T) {
	repo := &mockDoctorRepo{
		findBySpecialtyFn: func(ctx context.Context, specialty string) ([]*model.Doctor, error) {
			if specialty != "cardiology" {
				t.Errorf("expected lowercased specialty, got %q", specialty)
			}
			return []*model.Doctor{}, nil
		},
	}

	svc := newService(repo, nil)

	if _, err := svc.GetBySpecialty(context.Background(), "  Cardiology "); err != nil {
		t.Fatalf("GetBySpecialty() error: %v", err)
	}
}
