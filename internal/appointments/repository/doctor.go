package repository

import (
	"context"
	"errors"
	"fmt"

	appointmentserrors "carebook/internal/appointments/errors"
	"carebook/pkg/config"
	"carebook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DoctorReader is the appointments service's read-only view of doctor
// profiles. Writes go through the doctors service.
type DoctorReader interface {
	FindByID(ctx context.Context, id string) (*model.Doctor, error)
}

type mongoDoctorReader struct {
	collection *mongo.Collection
}

func NewDoctorReader(cfg *config.Config) DoctorReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDoctorReader{
		collection: db.Collection("Doctors"),
	}
}

func (r *mongoDoctorReader) FindByID(ctx context.Context, id string) (*model.Doctor, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrInvalidID, id)
	}

	var doctor model.Doctor
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doctor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appointmentserrors.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to find doctor: %w", err)
	}

	return &doctor, nil
}
