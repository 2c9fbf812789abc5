package models

import "time"

// Campaign status strings derived from the registration window.
const (
	CampaignUpcoming = "upcoming"
	CampaignActive   = "active"
	CampaignClosed   = "closed"
)

// Campaign is a time-windowed registration event owned by a starosta.
// Deleting a campaign cascades to its groups.
type Campaign struct {
	ID             int64     `json:"id"`
	CreatorID      *int64    `json:"creator_id,omitempty"`
	StudyProgramID *int64    `json:"study_program_id,omitempty"`
	Title          string    `json:"title"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Status derives the display status from the registration window.
func (c *Campaign) Status(now time.Time) string {
	switch {
	case now.Before(c.StartsAt):
		return CampaignUpcoming
	case now.After(c.EndsAt):
		return CampaignClosed
	default:
		return CampaignActive
	}
}

// WindowOpen reports whether submissions are accepted at now.
func (c *Campaign) WindowOpen(now time.Time) bool {
	return !now.Before(c.StartsAt) && !now.After(c.EndsAt)
}

// Group is a capacity-limited group inside a campaign. Occupancy is
// derived from registrations, never stored.
type Group struct {
	ID         int64  `json:"id"`
	CampaignID int64  `json:"campaign_id"`
	Name       string `json:"name"`
	SeatLimit  int    `json:"seat_limit"`
}
