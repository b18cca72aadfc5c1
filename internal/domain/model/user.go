package model

import (
	"time"
)

type Role string

const (
	RoleBasic Role = "basic"
	RoleAdmin Role = "admin"
)

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanTakeRide reports whether a user with this role may occupy the rider or
// driver slot of a ride. Admin accounts manage rides; they never participate.
func (r Role) CanTakeRide() bool {
	return r == RoleBasic
}

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PhoneNumber    *string   `json:"phone_number,omitempty"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           Role      `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
