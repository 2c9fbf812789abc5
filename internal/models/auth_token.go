package models

import "time"

// AuthToken is a single-use magic-link login token emailed to a user.
type AuthToken struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the token can still be redeemed at now.
func (t *AuthToken) Valid(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
