package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// MagicLinkLimiter enforces a per-email cooldown between magic-link
// requests. The magic-link path sends SMTP synchronously, so this is the
// only guard against mail flooding.
type MagicLinkLimiter struct {
	rdb      *redis.Client
	cooldown time.Duration
}

// NewMagicLinkLimiter creates a limiter backed by Redis.
func NewMagicLinkLimiter(rdb *redis.Client, cooldown time.Duration) *MagicLinkLimiter {
	return &MagicLinkLimiter{rdb: rdb, cooldown: cooldown}
}

// Allow reports whether a magic link may be issued for the email now.
// The first caller within the cooldown window wins; later calls wait it out.
func (l *MagicLinkLimiter) Allow(ctx context.Context, email string) (bool, error) {
	if l.cooldown <= 0 {
		return true, nil
	}
	return l.rdb.SetNX(ctx, "magiclink:cooldown:"+email, 1, l.cooldown).Result()
}
