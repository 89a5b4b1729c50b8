package repository

import (
	"context"
	"time"

	appointmentserrors "carebook/internal/appointments/errors"
	"carebook/pkg/config"
	"carebook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppointmentLockRepository provides operations for advisory slot locks.
type AppointmentLockRepository interface {
	Acquire(ctx context.Context, lock *model.AppointmentLock) error
	Release(ctx context.Context, lockID string) error
}

type mongoAppointmentLockRepository struct {
	collection *mongo.Collection
}

func NewAppointmentLockRepository(cfg *config.Config) AppointmentLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentLockRepository{
		collection: db.Collection("Appointment_locks"),
	}
}

// Acquire inserts the lock document. The _id is the slot coordinates,
// so a duplicate key means another request holds the slot right now.
func (r *mongoAppointmentLockRepository) Acquire(ctx context.Context, lock *model.AppointmentLock) error {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return appointmentserrors.ErrLockHeld
		}
		return err
	}

	return nil
}

// Release removes the advisory lock. Abandoned locks are reaped by the
// TTL index on expires_at.
func (r *mongoAppointmentLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
