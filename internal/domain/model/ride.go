package model

import (
	"time"
)

type RideStatus string

const (
	StatusPending RideStatus = "pending"
	StatusEnRoute RideStatus = "en-route"
	StatusPickup  RideStatus = "pickup"
	StatusDropoff RideStatus = "dropoff"
)

// statusProgression is the fixed forward-only lifecycle of a ride.
var statusProgression = []RideStatus{StatusPending, StatusEnRoute, StatusPickup, StatusDropoff}

func (s RideStatus) Valid() bool {
	return s.index() >= 0
}

func (s RideStatus) index() int {
	for i, st := range statusProgression {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the status that follows s in the progression, or false when s
// is terminal or unknown.
func (s RideStatus) Next() (RideStatus, bool) {
	i := s.index()
	if i < 0 || i == len(statusProgression)-1 {
		return "", false
	}
	return statusProgression[i+1], true
}

type Ride struct {
	ID               string     `json:"id"`
	RiderID          string     `json:"rider_id"`
	DriverID         string     `json:"driver_id"`
	Status           RideStatus `json:"status"`
	PickupLatitude   float64    `json:"pickup_latitude"`
	PickupLongitude  float64    `json:"pickup_longitude"`
	DropoffLatitude  float64    `json:"dropoff_latitude"`
	DropoffLongitude float64    `json:"dropoff_longitude"`
	PickupTime       time.Time  `json:"pickup_time"`
	CreatedAt        time.Time  `json:"created_at"`

	Rider  *User `json:"rider,omitempty"`
	Driver *User `json:"driver,omitempty"`

	// Distance is set when the pickup-to-dropoff annotation was requested.
	Distance *float64 `json:"distance,omitempty"`
	// PickupDistance is set when a reference point was supplied.
	PickupDistance *float64 `json:"pickup_distance,omitempty"`
	// RecentEvents holds the ride's events from the last 24 hours.
	RecentEvents []RideEvent `json:"recent_events"`
}
