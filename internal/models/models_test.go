package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvitationValid(t *testing.T) {
	now := time.Now()
	inv := Invitation{MaxUses: 2, CurrentUses: 0, ExpiresAt: now.Add(time.Hour)}

	assert.True(t, inv.Valid(now))

	inv.CurrentUses = 1
	assert.True(t, inv.Valid(now))

	inv.CurrentUses = 2
	assert.False(t, inv.Valid(now), "exhausted invitation must be invalid")

	inv.CurrentUses = 0
	assert.False(t, inv.Valid(now.Add(2*time.Hour)), "expired invitation must be invalid")
	assert.False(t, inv.Valid(inv.ExpiresAt), "expiry instant counts as expired")
}

func TestInvitationRemainingUses(t *testing.T) {
	inv := Invitation{MaxUses: 100, CurrentUses: 40}
	assert.Equal(t, 60, inv.RemainingUses())

	inv.CurrentUses = 150
	assert.Equal(t, 0, inv.RemainingUses())
}

func TestAuthTokenValid(t *testing.T) {
	now := time.Now()
	tok := AuthToken{ExpiresAt: now.Add(15 * time.Minute)}

	assert.True(t, tok.Valid(now))

	tok.Used = true
	assert.False(t, tok.Valid(now), "used token must be invalid")

	tok.Used = false
	assert.False(t, tok.Valid(now.Add(16*time.Minute)))
}

func TestCampaignStatus(t *testing.T) {
	now := time.Now()
	c := Campaign{StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour)}

	assert.Equal(t, CampaignActive, c.Status(now))
	assert.Equal(t, CampaignUpcoming, c.Status(now.Add(-2*time.Hour)))
	assert.Equal(t, CampaignClosed, c.Status(now.Add(2*time.Hour)))

	assert.Equal(t, CampaignActive, c.Status(c.StartsAt), "window is inclusive")
	assert.Equal(t, CampaignActive, c.Status(c.EndsAt), "window is inclusive")
}

func TestCampaignWindowOpen(t *testing.T) {
	now := time.Now()
	c := Campaign{StartsAt: now, EndsAt: now.Add(time.Hour)}

	assert.True(t, c.WindowOpen(now))
	assert.True(t, c.WindowOpen(c.EndsAt))
	assert.False(t, c.WindowOpen(now.Add(-time.Second)))
	assert.False(t, c.WindowOpen(c.EndsAt.Add(time.Second)))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("dziekan").Valid())
}
