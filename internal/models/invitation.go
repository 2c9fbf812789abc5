package models

import "time"

// Invitation is a capped, expiring code that grants a role and optional
// campaign access on redemption. current_uses only ever increments.
type Invitation struct {
	ID                   int64     `json:"id"`
	Token                string    `json:"token"`
	TargetRole           Role      `json:"target_role"`
	TargetStudyProgramID *int64    `json:"target_study_program_id,omitempty"`
	TargetCampaignID     *int64    `json:"target_campaign_id,omitempty"`
	MaxUses              int       `json:"max_uses"`
	CurrentUses          int       `json:"current_uses"`
	ExpiresAt            time.Time `json:"expires_at"`
	CreatedBy            *int64    `json:"created_by,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// Valid reports whether the invitation can still be redeemed at now.
func (i *Invitation) Valid(now time.Time) bool {
	return i.CurrentUses < i.MaxUses && now.Before(i.ExpiresAt)
}

// RemainingUses returns how many redemptions are left.
func (i *Invitation) RemainingUses() int {
	if n := i.MaxUses - i.CurrentUses; n > 0 {
		return n
	}
	return 0
}
