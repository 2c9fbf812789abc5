package models

import "time"

// RegistrationStatus tracks the lifecycle of a preference entry.
type RegistrationStatus string

const (
	// StatusSubmitted means the preference waits for the allocation run.
	StatusSubmitted RegistrationStatus = "submitted"
	// StatusAssigned means the allocation placed the student in this group.
	StatusAssigned RegistrationStatus = "assigned"
	// StatusRejected means the student did not get a seat in this group.
	StatusRejected RegistrationStatus = "rejected"
)

// Registration is one (user, group) preference with a priority rank.
// The pair is unique; a full ranking has one row per campaign group.
type Registration struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"user_id"`
	GroupID   int64              `json:"group_id"`
	Priority  int                `json:"priority"`
	Status    RegistrationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}
