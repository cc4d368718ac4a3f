package model

import "time"

// VehicleLock is an advisory lock serializing the check-then-insert window
// of the booking path per vehicle. The _id is derived from the vehicle ID,
// so a duplicate-key error on insert means another writer holds the lock.
// A TTL index on expires_at reaps locks leaked by crashed processes.
type VehicleLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
