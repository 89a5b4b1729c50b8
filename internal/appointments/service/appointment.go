package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"carebook/internal/appointments/availability"
	appointmentserrors "carebook/internal/appointments/errors"
	"carebook/internal/appointments/repository"
	"carebook/internal/appointments/validator"
	"carebook/pkg/config"
	apperrors "carebook/pkg/errors"
	"carebook/pkg/events"
	"carebook/pkg/model"
	"carebook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type AppointmentService interface {
	Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	GetByPatient(ctx context.Context, patientID string, limit int, offset int64) ([]*model.Appointment, int64, error)
	GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]*model.Appointment, error)
	AvailableSlots(ctx context.Context, doctorID, date string) ([]availability.Slot, error)
	Confirm(ctx context.Context, id string) (*model.Appointment, error)
	CheckIn(ctx context.Context, id string) (*model.Appointment, error)
	Complete(ctx context.Context, id string) (*model.Appointment, error)
	Cancel(ctx context.Context, id, actor string) (*model.Appointment, error)
	MarkPaid(ctx context.Context, id string) (*model.Appointment, error)
	Delete(ctx context.Context, id, actor string) error
}

type appointmentService struct {
	repo      repository.AppointmentRepository
	lockRepo  repository.AppointmentLockRepository
	doctors   repository.DoctorReader
	validator *validator.AppointmentValidator
	emitter   events.Emitter
	cfg       *config.Config
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	lockRepo repository.AppointmentLockRepository,
	doctors repository.DoctorReader,
	validator *validator.AppointmentValidator,
	emitter events.Emitter,
	cfg *config.Config,
) AppointmentService {
	return &appointmentService{
		repo:      repo,
		lockRepo:  lockRepo,
		doctors:   doctors,
		validator: validator,
		emitter:   emitter,
		cfg:       cfg,
	}
}

// Create books a new appointment. The conflict check and insert run
// inside one transaction, guarded by an advisory slot lock; the unique
// slot index is the last line of defense.
func (s *appointmentService) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	s.sanitizeCreate(req)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Appointment validation failed", "error", err)
		return nil, apperrors.Validation("Appointment validation failed", map[string]any{"error": err.Error()})
	}

	doctor, err := s.loadDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsAvailable {
		return nil, apperrors.DoctorUnavailable(doctor.ID)
	}

	endTime, err := availability.AddMinutes(req.StartTime, doctor.SlotDurationMin)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	inHours, err := availability.WithinWorkingHours(doctor, req.Date, req.StartTime, endTime)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if !inHours {
		return nil, apperrors.SlotUnavailable(fmt.Sprintf(
			"slot %s-%s is outside the doctor's working hours on %s", req.StartTime, endTime, req.Date))
	}

	appointment := &model.Appointment{
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       endTime,
		Type:          req.Type,
		Status:        model.StatusScheduled,
		PaymentStatus: model.PaymentUnpaid,
		Reason:        req.Reason,
	}

	lockID, err := s.acquireSlotLock(ctx, appointment)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, appointment); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, appointment); err != nil {
			return s.storeErr("create appointment", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create appointment", "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Appointment created successfully",
		"id", appointment.ID,
		"patient_id", appointment.PatientID,
		"doctor_id", appointment.DoctorID,
		"date", appointment.Date,
		"start_time", appointment.StartTime,
	)

	s.emit(ctx, events.TypeBooked, appointment, "")
	return appointment, nil
}

func (s *appointmentService) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(id, err)
	}

	return appointment, nil
}

func (s *appointmentService) GetByPatient(ctx context.Context, patientID string, limit int, offset int64) ([]*model.Appointment, int64, error) {
	if patientID == "" {
		return nil, 0, apperrors.InvalidInput("Patient ID cannot be empty")
	}

	var count int64
	var appointments []*model.Appointment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByPatient(ctx, patientID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count patient appointments", "patient_id", patientID, "error", errCount)
			errCount = s.storeErr("count appointments", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		appointments, errFind = s.repo.FindByPatient(ctx, patientID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list patient appointments", "patient_id", patientID, "error", errFind)
			errFind = s.storeErr("list appointments", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return appointments, count, nil
}

func (s *appointmentService) GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]*model.Appointment, error) {
	if doctorID == "" || date == "" {
		return nil, apperrors.InvalidInput("doctor_id and date are required")
	}

	appointments, err := s.repo.FindByDoctorAndDate(ctx, doctorID, date, nil)
	if err != nil {
		s.cfg.Log.Error("Failed to list doctor appointments", "doctor_id", doctorID, "date", date, "error", err)
		return nil, s.storeErr("list appointments", err)
	}

	return appointments, nil
}

// AvailableSlots lists the doctor's free slots on date. Completed
// visits still occupy their slot; only cancellations free it.
func (s *appointmentService) AvailableSlots(ctx context.Context, doctorID, date string) ([]availability.Slot, error) {
	if doctorID == "" || date == "" {
		return nil, apperrors.InvalidInput("doctor_id and date are required")
	}

	doctor, err := s.loadDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsAvailable {
		return []availability.Slot{}, nil
	}

	booked, err := s.repo.FindByDoctorAndDate(ctx, doctorID, date, model.NonCancelledStatuses())
	if err != nil {
		s.cfg.Log.Error("Failed to load booked appointments", "doctor_id", doctorID, "date", date, "error", err)
		return nil, s.storeErr("load booked appointments", err)
	}

	slots, err := availability.Slots(doctor, date, booked)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	return slots, nil
}

func (s *appointmentService) Confirm(ctx context.Context, id string) (*model.Appointment, error) {
	return s.transition(ctx, id, model.StatusConfirmed, events.TypeConfirmed, "")
}

func (s *appointmentService) CheckIn(ctx context.Context, id string) (*model.Appointment, error) {
	return s.transition(ctx, id, model.StatusCheckedIn, events.TypeCheckedIn, "")
}

func (s *appointmentService) Complete(ctx context.Context, id string) (*model.Appointment, error) {
	return s.transition(ctx, id, model.StatusCompleted, events.TypeCompleted, "")
}

// Cancel is idempotent: cancelling an already cancelled appointment
// succeeds without a second event.
func (s *appointmentService) Cancel(ctx context.Context, id, actor string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(id, err)
	}

	if appointment.Status == model.StatusCancelled {
		s.cfg.Log.Info("Appointment already cancelled", "id", id)
		return appointment, nil
	}

	if !model.CanTransition(appointment.Status, model.StatusCancelled) {
		return nil, apperrors.InvalidTransition(string(appointment.Status), string(model.StatusCancelled))
	}

	if err := s.repo.UpdateStatus(ctx, id, appointment.Status, model.StatusCancelled); err != nil {
		return nil, s.writeErr(id, "cancel appointment", err)
	}

	appointment.Status = model.StatusCancelled
	s.cfg.Log.Info("Appointment cancelled", "id", id, "actor", actor)
	s.emit(ctx, events.TypeCancelled, appointment, actor)
	return appointment, nil
}

// MarkPaid records payment. Payment is independent of the visit state
// machine except that cancelled appointments can no longer be paid.
func (s *appointmentService) MarkPaid(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(id, err)
	}

	if appointment.Status == model.StatusCancelled {
		return nil, apperrors.InvalidTransition(string(model.StatusCancelled), "paid")
	}

	if appointment.PaymentStatus == model.PaymentPaid {
		s.cfg.Log.Info("Appointment already paid", "id", id)
		return appointment, nil
	}

	if err := s.repo.UpdatePayment(ctx, id, appointment.Status, model.PaymentPaid); err != nil {
		return nil, s.writeErr(id, "mark appointment paid", err)
	}

	appointment.PaymentStatus = model.PaymentPaid
	s.cfg.Log.Info("Appointment marked paid", "id", id)
	s.emit(ctx, events.TypePaid, appointment, "")
	return appointment, nil
}

// Delete removes the appointment record. Only cancelled appointments
// may be deleted; active and completed ones are the medical record.
func (s *appointmentService) Delete(ctx context.Context, id, actor string) error {
	if id == "" {
		return apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.lookupErr(id, err)
	}

	if appointment.Status != model.StatusCancelled {
		return apperrors.InvalidTransition(string(appointment.Status), "deleted")
	}

	if err := s.repo.Delete(ctx, id, model.StatusCancelled); err != nil {
		return s.writeErr(id, "delete appointment", err)
	}

	s.cfg.Log.Info("Appointment deleted", "id", id, "actor", actor)
	return nil
}

// --- Helpers ---

// transition performs one forward step of the appointment state
// machine with a compare-and-set write.
func (s *appointmentService) transition(ctx context.Context, id string, to model.AppointmentStatus, eventType, actor string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(id, err)
	}

	if !model.CanTransition(appointment.Status, to) {
		return nil, apperrors.InvalidTransition(string(appointment.Status), string(to))
	}

	if err := s.repo.UpdateStatus(ctx, id, appointment.Status, to); err != nil {
		return nil, s.writeErr(id, "update appointment status", err)
	}

	appointment.Status = to
	s.cfg.Log.Info("Appointment status updated", "id", id, "status", to)
	s.emit(ctx, eventType, appointment, actor)
	return appointment, nil
}

func (s *appointmentService) sanitizeCreate(req *model.CreateAppointmentRequest) {
	req.PatientID = sanitizer.TrimAndNormalize(req.PatientID)
	req.Reason = sanitizer.NormalizeFreeText(req.Reason)
}

func (s *appointmentService) loadDoctor(ctx context.Context, doctorID string) (*model.Doctor, error) {
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, appointmentserrors.ErrDoctorNotFound) {
			return nil, apperrors.NotFoundWithID("Doctor", doctorID)
		}
		if errors.Is(err, appointmentserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid doctor ID format")
		}
		return nil, s.storeErr("load doctor", err)
	}
	return doctor, nil
}

// lookupErr maps repository read errors to API errors.
func (s *appointmentService) lookupErr(id string, err error) error {
	switch {
	case errors.Is(err, appointmentserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Appointment", id)
	case errors.Is(err, appointmentserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid appointment ID format")
	default:
		return s.storeErr("retrieve appointment", err)
	}
}

// writeErr maps repository write errors to API errors. A stale
// compare-and-set means a concurrent writer changed the status first.
func (s *appointmentService) writeErr(id, operation string, err error) error {
	switch {
	case errors.Is(err, appointmentserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Appointment", id)
	case errors.Is(err, appointmentserrors.ErrStaleState):
		return apperrors.ConcurrentModification("Appointment", id)
	default:
		return s.storeErr(operation, err)
	}
}

// storeErr distinguishes persistence timeouts from other store
// failures so clients know what is retryable.
func (s *appointmentService) storeErr(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.PersistenceTimeout(operation)
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(fmt.Sprintf("Failed to %s", operation), err)
}

// emit publishes the lifecycle event after the state change has been
// committed. Emission failures are logged, never surfaced: the booking
// is already durable.
func (s *appointmentService) emit(ctx context.Context, eventType string, a *model.Appointment, actor string) {
	_ = s.emitter.Emit(ctx, events.Event{
		Type:          eventType,
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		Date:          a.Date,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Actor:         actor,
		Timestamp:     time.Now(),
	})
}

// acquireSlotLock takes the advisory lock for the slot coordinates.
func (s *appointmentService) acquireSlotLock(ctx context.Context, a *model.Appointment) (string, error) {
	lockID := fmt.Sprintf("appointment_lock_%s_%s_%s", a.DoctorID, a.Date, a.StartTime)

	lock := &model.AppointmentLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(10 * time.Second),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if errors.Is(err, appointmentserrors.ErrLockHeld) {
			return "", apperrors.SlotUnavailable("This slot is currently being booked by another request. Please try again.")
		}
		return "", s.storeErr("acquire slot lock", err)
	}

	return lockID, nil
}

func (s *appointmentService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Release(ctx, lockID)
}
