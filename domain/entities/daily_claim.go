package entities

import "time"

// DailyClaimCooldown is the default minimum time between two daily claims
const DailyClaimCooldown = 23*time.Hour + 30*time.Minute

// DailyClaim records the last time a user collected the daily reward
type DailyClaim struct {
	GuildID     int64     `db:"guild_id"`
	UserID      int64     `db:"user_id"`
	LastClaimAt time.Time `db:"last_claim_at"`
}

// Remaining returns how long until the next claim is allowed, or zero
func (d *DailyClaim) Remaining(now time.Time, cooldown time.Duration) time.Duration {
	if d == nil {
		return 0
	}
	remaining := d.LastClaimAt.Add(cooldown).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
