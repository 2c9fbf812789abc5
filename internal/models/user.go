package models

import "time"

// Role represents a user role in the platform.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "starosta"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// User is a student or starosta identified by university email.
// Campaign access grants live in the user_campaigns join table.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	StudyProgramID *int64    `json:"study_program_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
