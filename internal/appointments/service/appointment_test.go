package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	appointmentserrors "carebook/internal/appointments/errors"
	"carebook/internal/appointments/validator"
	"carebook/pkg/config"
	mongotx "carebook/pkg/db/mongo"
	apperrors "carebook/pkg/errors"
	"carebook/pkg/events"
	"carebook/pkg/logger"
	"carebook/pkg/model"
)

const (
	testDoctorID = "507f1f77bcf86cd799439011"
	testApptID   = "507f1f77bcf86cd799439022"
	// 2026-01-05 is a Monday.
	testDate = "2026-01-05"
)

type mockAppointmentRepo struct {
	createFn                     func(ctx context.Context, a *model.Appointment) error
	findByIDFn                   func(ctx context.Context, id string) (*model.Appointment, error)
	findByDoctorAndDateFn        func(ctx context.Context, doctorID, date string, statuses []model.AppointmentStatus) ([]*model.Appointment, error)
	findByPatientFn              func(ctx context.Context, patientID string, limit int, offset int64) ([]*model.Appointment, error)
	countByPatientFn             func(ctx context.Context, patientID string) (int64, error)
	findActiveByPatientAndDateFn func(ctx context.Context, patientID, date string) ([]*model.Appointment, error)
	findUpcomingFn               func(ctx context.Context, date, fromTime, toTime string, statuses []model.AppointmentStatus) ([]*model.Appointment, error)
	updateStatusFn               func(ctx context.Context, id string, from, to model.AppointmentStatus) error
	updatePaymentFn              func(ctx context.Context, id string, status model.AppointmentStatus, payment model.PaymentStatus) error
	deleteFn                     func(ctx context.Context, id string, status model.AppointmentStatus) error
}

func (m *mockAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	return m.createFn(ctx, a)
}

func (m *mockAppointmentRepo) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockAppointmentRepo) FindByDoctorAndDate(ctx context.Context, doctorID, date string, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
	return m.findByDoctorAndDateFn(ctx, doctorID, date, statuses)
}

func (m *mockAppointmentRepo) FindByPatient(ctx context.Context, patientID string, limit int, offset int64) ([]*model.Appointment, error) {
	return m.findByPatientFn(ctx, patientID, limit, offset)
}

func (m *mockAppointmentRepo) CountByPatient(ctx context.Context, patientID string) (int64, error) {
	return m.countByPatientFn(ctx, patientID)
}

func (m *mockAppointmentRepo) FindActiveByPatientAndDate(ctx context.Context, patientID, date string) ([]*model.Appointment, error) {
	return m.findActiveByPatientAndDateFn(ctx, patientID, date)
}

func (m *mockAppointmentRepo) FindUpcoming(ctx context.Context, date, fromTime, toTime string, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
	return m.findUpcomingFn(ctx, date, fromTime, toTime, statuses)
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id string, from, to model.AppointmentStatus) error {
	return m.updateStatusFn(ctx, id, from, to)
}

func (m *mockAppointmentRepo) UpdatePayment(ctx context.Context, id string, status model.AppointmentStatus, payment model.PaymentStatus) error {
	return m.updatePaymentFn(ctx, id, status, payment)
}

func (m *mockAppointmentRepo) Delete(ctx context.Context, id string, status model.AppointmentStatus) error {
	return m.deleteFn(ctx, id, status)
}

func (m *mockAppointmentRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepo struct {
	acquireFn func(ctx context.Context, lock *model.AppointmentLock) error
	releaseFn func(ctx context.Context, lockID string) error
}

func (m *mockLockRepo) Acquire(ctx context.Context, lock *model.AppointmentLock) error {
	if m.acquireFn != nil {
		return m.acquireFn(ctx, lock)
	}
	return nil
}

func (m *mockLockRepo) Release(ctx context.Context, lockID string) error {
	if m.releaseFn != nil {
		return m.releaseFn(ctx, lockID)
	}
	return nil
}

type mockDoctorReader struct {
	findByIDFn func(ctx context.Context, id string) (*model.Doctor, error)
}

func (m *mockDoctorReader) FindByID(ctx context.Context, id string) (*model.Doctor, error) {
	return m.findByIDFn(ctx, id)
}

type recordingEmitter struct {
	events []events.Event
}

func (r *recordingEmitter) Emit(ctx context.Context, event events.Event) error {
	r.events = append(r.events, event)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		PatientOverlapPolicy: config.PatientOverlapAllow,
		Log:                  logger.New(logger.Config{Output: io.Discard}),
	}
}

func availableDoctor() *model.Doctor {
	return &model.Doctor{
		ID:   testDoctorID,
		Name: "Dr. Sarah Cohen",
		WorkingHours: map[model.Weekday]model.DayHours{
			model.Monday: {Start: "09:00", End: "12:00"},
		},
		SlotDurationMin: 30,
		IsAvailable:     true,
	}
}

func newService(repo *mockAppointmentRepo, locks *mockLockRepo, doctors *mockDoctorReader, emitter *recordingEmitter, cfg *config.Config) AppointmentService {
	if cfg == nil {
		cfg = testConfig()
	}
	v := validator.NewAppointmentValidator(cfg.Log)
	return NewAppointmentService(repo, locks, doctors, v, emitter, cfg)
}

func createRequest() *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID: "patient-42",
		DoctorID:  testDoctorID,
		Date:      testDate,
		StartTime: "10:00",
		Type:      model.TypeConsultation,
	}
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}

func TestCreate_Success(t *testing.T) {
	emitter := &recordingEmitter{}
	repo := &mockAppointmentRepo{
		findByDoctorAndDateFn: func(ctx context.Context, doctorID, date string, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, a *model.Appointment) error {
			a.ID = testApptID
			return nil
		},
	}
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return availableDoctor(), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, doctors, emitter, nil)

	appointment, err := svc.Create(context.Background(), createRequest())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if appointment.EndTime != "10:30" {
		t.Errorf("expected derived end_time 10:30, got %s", appointment.EndTime)
	}
	if appointment.Status != model.StatusScheduled {
		t.Errorf("expected status scheduled, got %s", appointment.Status)
	}
	if appointment.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("expected payment_status unpaid, got %s", appointment.PaymentStatus)
	}

	if len(emitter.events) != 1 || emitter.events[0].Type != events.TypeBooked {
		t.Fatalf("expected single booked event, got %v", emitter.events)
	}
	if emitter.events[0].AppointmentID != testApptID {
		t.Errorf("event missing appointment ID: %v", emitter.events[0])
	}
}

func TestCreate_SlotTaken(t *testing.T) {
	emitter := &recordingEmitter{}
	repo := &mockAppointmentRepo{
		findByDoctorAndDateFn: func(ctx context.Context, doctorID, date string, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
			return []*model.Appointment{{
				DoctorID:  testDoctorID,
				Date:      testDate,
				StartTime: "10:00",
				EndTime:   "10:30",
				Status:    model.StatusConfirmed,
			}}, nil
		},
	}
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return availableDoctor(), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, doctors, emitter, nil)

	_, err := svc.Create(context.Background(), createRequest())
	expectCode(t, err, apperrors.CodeSlotUnavailable)

	if len(emitter.events) != 0 {
		t.Errorf("no event should be emitted for a failed booking, got %v", emitter.events)
	}
}

func TestCreate_BackToBackAllowed(t *testing.T) {
	repo := &mockAppointmentRepo{
		findByDoctorAndDateFn: func(ctx context.Context, doctorID, date string, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
			// Existing appointment ends exactly when the new one starts.
			return []*model.Appointment{{
				StartTime: "09:30",
				EndTime:   "10:00",
				Status:    model.StatusScheduled,
			}}, nil
		},
		createFn: func(ctx context.Context, a *model.Appointment) error {
			a.ID = testApptID
			return nil
		},
	}
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return availableDoctor(), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, doctors, &recordingEmitter{}, nil)

	if _, err := svc.Create(context.Background(), createRequest()); err != nil {
		t.Fatalf("back-to-back booking should succeed, got %v", err)
	}
}

func TestCreate_DoctorUnavailable(t *testing.T) {
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			doctor := availableDoctor()
			doctor.IsAvailable = false
			return doctor, nil
		},
	}

	svc := newService(&mockAppointmentRepo{}, &mockLockRepo{}, doctors, &recordingEmitter{}, nil)

	_, err := svc.Create(context.Background(), createRequest())
	expectCode(t, err, apperrors.CodeDoctorUnavailable)
}

func TestCreate_OutsideWorkingHours(t *testing.T) {
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return availableDoctor(), nil
		},
	}

	svc := newService(&mockAppointmentRepo{}, &mockLockRepo{}, doctors, &recordingEmitter{}, nil)

	req := createRequest()
	req.StartTime = "13:00"

	_, err := svc.Create(context.Background(), req)
	expectCode(t, err, apperrors.CodeSlotUnavailable)
}

func TestCreate_LockHeld(t *testing.T) {
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return availableDoctor(), nil
		},
	}
	locks := &mockLockRepo{
		acquireFn: func(ctx context.Context, lock *model.AppointmentLock) error {
			return appointmentserrors.ErrLockHeld
		},
	}

	svc := newService(&mockAppointmentRepo{}, locks, doctors, &recordingEmitter{}, nil)

	_, err := svc.Create(context.Background(), createRequest())
	expectCode(t, err, apperrors.CodeSlotUnavailable)
}

func TestCreate_DuplicateSlotIndexBackstop(t *testing.T) {
	// A concurrent insert slipped past the advisory lock; the unique
	// slot index rejects the second write.
	repo := &mockAppointmentRepo{
		findByDoctorAndDateFn: func(ctx context.Context, doctorID, date string, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, a *model.Appointment) error {
			return appointmentserrors.ErrDuplicateSlot
		},
	}
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return availableDoctor(), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, doctors, &recordingEmitter{}, nil)

	_, err := svc.Create(context.Background(), createRequest())
	if err == nil {
		t.Fatal("expected error when unique index rejects insert")
	}
}

func TestCreate_PatientOverlapRejected(t *testing.T) {
	cfg := testConfig()
	cfg.PatientOverlapPolicy = config.PatientOverlapReject

	repo := &mockAppointmentRepo{
		findByDoctorAndDateFn: func(ctx context.Context, doctorID, date string, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
			return nil, nil
		},
		findActiveByPatientAndDateFn: func(ctx context.Context, patientID, date string) ([]*model.Appointment, error) {
			// Same patient, different doctor, overlapping interval.
			return []*model.Appointment{{
				ID:        "other",
				PatientID: "patient-42",
				DoctorID:  "507f1f77bcf86cd799439033",
				Date:      testDate,
				StartTime: "10:15",
				EndTime:   "10:45",
				Status:    model.StatusScheduled,
			}}, nil
		},
	}
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return availableDoctor(), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, doctors, &recordingEmitter{}, cfg)

	_, err := svc.Create(context.Background(), createRequest())
	expectCode(t, err, apperrors.CodeSlotUnavailable)
}

func TestCreate_PersistenceTimeout(t *testing.T) {
	repo := &mockAppointmentRepo{
		findByDoctorAndDateFn: func(ctx context.Context, doctorID, date string, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
			return nil, fmt.Errorf("find failed: %w", context.DeadlineExceeded)
		},
	}
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return availableDoctor(), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, doctors, &recordingEmitter{}, nil)

	_, err := svc.Create(context.Background(), createRequest())
	expectCode(t, err, apperrors.CodeTimeout)

	if !apperrors.AsAppError(err).Retryable() {
		t.Error("persistence timeout should be retryable")
	}
}

func storedAppointment(status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		ID:            testApptID,
		PatientID:     "patient-42",
		DoctorID:      testDoctorID,
		Date:          testDate,
		StartTime:     "10:00",
		EndTime:       "10:30",
		Type:          model.TypeConsultation,
		Status:        status,
		PaymentStatus: model.PaymentUnpaid,
	}
}

func TestLifecycle_FullPath(t *testing.T) {
	current := storedAppointment(model.StatusScheduled)
	emitter := &recordingEmitter{}

	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			copy := *current
			return &copy, nil
		},
		updateStatusFn: func(ctx context.Context, id string, from, to model.AppointmentStatus) error {
			if current.Status != from {
				return appointmentserrors.ErrStaleState
			}
			current.Status = to
			return nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, emitter, nil)
	ctx := context.Background()

	steps := []struct {
		op   func() (*model.Appointment, error)
		want model.AppointmentStatus
	}{
		{func() (*model.Appointment, error) { return svc.Confirm(ctx, testApptID) }, model.StatusConfirmed},
		{func() (*model.Appointment, error) { return svc.CheckIn(ctx, testApptID) }, model.StatusCheckedIn},
		{func() (*model.Appointment, error) { return svc.Complete(ctx, testApptID) }, model.StatusCompleted},
	}

	for _, step := range steps {
		appointment, err := step.op()
		if err != nil {
			t.Fatalf("transition to %s failed: %v", step.want, err)
		}
		if appointment.Status != step.want {
			t.Fatalf("expected status %s, got %s", step.want, appointment.Status)
		}
	}

	wantEvents := []string{events.TypeConfirmed, events.TypeCheckedIn, events.TypeCompleted}
	if len(emitter.events) != len(wantEvents) {
		t.Fatalf("expected %d events, got %d", len(wantEvents), len(emitter.events))
	}
	for i, want := range wantEvents {
		if emitter.events[i].Type != want {
			t.Errorf("event %d = %s, want %s", i, emitter.events[i].Type, want)
		}
	}
}

func TestCheckIn_SkippingConfirmFails(t *testing.T) {
	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(model.StatusScheduled), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, &recordingEmitter{}, nil)

	_, err := svc.CheckIn(context.Background(), testApptID)
	expectCode(t, err, apperrors.CodeInvalidTransition)
}

func TestConfirm_CompletedFails(t *testing.T) {
	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(model.StatusCompleted), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, &recordingEmitter{}, nil)

	_, err := svc.Confirm(context.Background(), testApptID)
	expectCode(t, err, apperrors.CodeInvalidTransition)
}

func TestCancel_FromEveryActiveState(t *testing.T) {
	for _, status := range []model.AppointmentStatus{model.StatusScheduled, model.StatusConfirmed, model.StatusCheckedIn} {
		t.Run(string(status), func(t *testing.T) {
			emitter := &recordingEmitter{}
			repo := &mockAppointmentRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
					return storedAppointment(status), nil
				},
				updateStatusFn: func(ctx context.Context, id string, from, to model.AppointmentStatus) error {
					return nil
				},
			}

			svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, emitter, nil)

			appointment, err := svc.Cancel(context.Background(), testApptID, "patient-42")
			if err != nil {
				t.Fatalf("Cancel() from %s error: %v", status, err)
			}
			if appointment.Status != model.StatusCancelled {
				t.Errorf("expected cancelled, got %s", appointment.Status)
			}
			if len(emitter.events) != 1 || emitter.events[0].Type != events.TypeCancelled {
				t.Errorf("expected single cancelled event, got %v", emitter.events)
			}
			if emitter.events[0].Actor != "patient-42" {
				t.Errorf("expected actor on cancellation event, got %q", emitter.events[0].Actor)
			}
		})
	}
}

func TestCancel_Completed_Fails(t *testing.T) {
	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(model.StatusCompleted), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, &recordingEmitter{}, nil)

	_, err := svc.Cancel(context.Background(), testApptID, "")
	expectCode(t, err, apperrors.CodeInvalidTransition)
}

func TestCancel_Idempotent(t *testing.T) {
	emitter := &recordingEmitter{}
	updates := 0
	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(model.StatusCancelled), nil
		},
		updateStatusFn: func(ctx context.Context, id string, from, to model.AppointmentStatus) error {
			updates++
			return nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, emitter, nil)

	appointment, err := svc.Cancel(context.Background(), testApptID, "")
	if err != nil {
		t.Fatalf("cancelling a cancelled appointment must succeed, got %v", err)
	}
	if appointment.Status != model.StatusCancelled {
		t.Errorf("expected cancelled, got %s", appointment.Status)
	}
	if updates != 0 {
		t.Errorf("no write should happen on idempotent cancel, got %d", updates)
	}
	if len(emitter.events) != 0 {
		t.Errorf("no duplicate cancellation event, got %v", emitter.events)
	}
}

func TestCancel_ConcurrentModification(t *testing.T) {
	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(model.StatusScheduled), nil
		},
		updateStatusFn: func(ctx context.Context, id string, from, to model.AppointmentStatus) error {
			// Another writer changed the status between read and CAS.
			return appointmentserrors.ErrStaleState
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, &recordingEmitter{}, nil)

	_, err := svc.Cancel(context.Background(), testApptID, "")
	expectCode(t, err, apperrors.CodeConcurrentModification)

	if !apperrors.AsAppError(err).Retryable() {
		t.Error("concurrent modification should be retryable")
	}
}

func TestMarkPaid_Success(t *testing.T) {
	emitter := &recordingEmitter{}
	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(model.StatusConfirmed), nil
		},
		updatePaymentFn: func(ctx context.Context, id string, status model.AppointmentStatus, payment model.PaymentStatus) error {
			if status != model.StatusConfirmed || payment != model.PaymentPaid {
				t.Errorf("unexpected payment update: status=%s payment=%s", status, payment)
			}
			return nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, emitter, nil)

	appointment, err := svc.MarkPaid(context.Background(), testApptID)
	if err != nil {
		t.Fatalf("MarkPaid() error: %v", err)
	}
	if appointment.PaymentStatus != model.PaymentPaid {
		t.Errorf("expected paid, got %s", appointment.PaymentStatus)
	}
	if len(emitter.events) != 1 || emitter.events[0].Type != events.TypePaid {
		t.Errorf("expected paid event, got %v", emitter.events)
	}
}

func TestMarkPaid_CancelledFails(t *testing.T) {
	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(model.StatusCancelled), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, &recordingEmitter{}, nil)

	_, err := svc.MarkPaid(context.Background(), testApptID)
	expectCode(t, err, apperrors.CodeInvalidTransition)
}

func TestMarkPaid_Idempotent(t *testing.T) {
	emitter := &recordingEmitter{}
	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			a := storedAppointment(model.StatusConfirmed)
			a.PaymentStatus = model.PaymentPaid
			return a, nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, emitter, nil)

	if _, err := svc.MarkPaid(context.Background(), testApptID); err != nil {
		t.Fatalf("MarkPaid() on paid appointment must succeed, got %v", err)
	}
	if len(emitter.events) != 0 {
		t.Errorf("no duplicate paid event, got %v", emitter.events)
	}
}

func TestDelete_OnlyCancelled(t *testing.T) {
	for _, status := range []model.AppointmentStatus{model.StatusScheduled, model.StatusConfirmed, model.StatusCheckedIn, model.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			repo := &mockAppointmentRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
					return storedAppointment(status), nil
				},
			}

			svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, &recordingEmitter{}, nil)

			err := svc.Delete(context.Background(), testApptID, "admin")
			expectCode(t, err, apperrors.CodeInvalidTransition)
		})
	}
}

func TestDelete_Cancelled(t *testing.T) {
	deleted := false
	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			return storedAppointment(model.StatusCancelled), nil
		},
		deleteFn: func(ctx context.Context, id string, status model.AppointmentStatus) error {
			if status != model.StatusCancelled {
				t.Errorf("delete must be conditional on cancelled status, got %s", status)
			}
			deleted = true
			return nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, &recordingEmitter{}, nil)

	if err := svc.Delete(context.Background(), testApptID, "admin"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if !deleted {
		t.Error("expected repository delete")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockAppointmentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Appointment, error) {
			return nil, appointmentserrors.ErrNotFound
		},
	}

	svc := newService(repo, &mockLockRepo{}, &mockDoctorReader{}, &recordingEmitter{}, nil)

	_, err := svc.GetByID(context.Background(), testApptID)
	expectCode(t, err, apperrors.CodeNotFound)
}

func TestAvailableSlots_SuspendedDoctorHasNone(t *testing.T) {
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			doctor := availableDoctor()
			doctor.IsAvailable = false
			return doctor, nil
		},
	}

	svc := newService(&mockAppointmentRepo{}, &mockLockRepo{}, doctors, &recordingEmitter{}, nil)

	slots, err := svc.AvailableSlots(context.Background(), testDoctorID, testDate)
	if err != nil {
		t.Fatalf("AvailableSlots() error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("suspended doctor must have no slots, got %v", slots)
	}
}

func TestAvailableSlots_CompletedStillBlocks(t *testing.T) {
	repo := &mockAppointmentRepo{
		findByDoctorAndDateFn: func(ctx context.Context, doctorID, date string, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
			// The repository filter must include completed visits.
			hasCompleted := false
			for _, s := range statuses {
				if s == model.StatusCompleted {
					hasCompleted = true
				}
			}
			if !hasCompleted {
				t.Error("availability query must include completed appointments")
			}
			return []*model.Appointment{{
				StartTime: "09:00",
				EndTime:   "09:30",
				Status:    model.StatusCompleted,
			}}, nil
		},
	}
	doctors := &mockDoctorReader{
		findByIDFn: func(ctx context.Context, id string) (*model.Doctor, error) {
			return availableDoctor(), nil
		},
	}

	svc := newService(repo, &mockLockRepo{}, doctors, &recordingEmitter{}, nil)

	slots, err := svc.AvailableSlots(context.Background(), testDoctorID, testDate)
	if err != nil {
		t.Fatalf("AvailableSlots() error: %v", err)
	}
	for _, s := range slots {
		if s.Start == "09:00" {
			t.Error("completed visit's slot must not be offered")
		}
	}
}
