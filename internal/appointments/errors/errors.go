package errors

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	ErrInvalidID = errors.New("invalid appointment ID format")

	// ErrStaleState means a conditional status update matched no
	// document although the appointment exists: another writer changed
	// the status between read and write.
	ErrStaleState = errors.New("appointment status changed concurrently")

	// ErrDuplicateSlot means the unique slot index rejected an insert:
	// an active appointment already holds the slot.
	ErrDuplicateSlot = errors.New("slot already booked")

	// ErrLockHeld means another booking request holds the advisory lock
	// for the same slot.
	ErrLockHeld = errors.New("slot lock held by another request")

	ErrDoctorNotFound = errors.New("doctor not found")
)
