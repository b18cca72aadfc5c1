package model

import (
	"time"
)

// RideEvent is an append-only audit record tied to a ride. Events are created
// only as a side effect of a status transition; they are never updated and
// disappear only when their ride is deleted.
type RideEvent struct {
	ID          string    `json:"id"`
	RideID      string    `json:"ride_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
