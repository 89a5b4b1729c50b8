package model

import "time"

// AppointmentLock is an advisory lock held while a booking's conflict
// check and insert run. The ID encodes the slot coordinates
// (doctor, date, start time); a TTL index on expires_at reaps locks
// abandoned by crashed requests.
type AppointmentLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
