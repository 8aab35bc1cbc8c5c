package entities

import (
	"strings"
	"time"
)

// RedeemCode is a one-per-user claimable credit voucher
type RedeemCode struct {
	GuildID   int64      `db:"guild_id"`
	Code      string     `db:"code"`
	Amount    int64      `db:"amount"`
	MaxUses   int        `db:"max_uses"`
	Uses      int        `db:"uses"`
	ExpiresAt *time.Time `db:"expires_at"` // Nullable - NULL never expires
	Note      string     `db:"note"`
	Disabled  bool       `db:"disabled"`
	CreatedBy int64      `db:"created_by"`
	CreatedAt time.Time  `db:"created_at"`
}

// NormalizeCode canonicalises user input into the stored code form
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsExpired reports whether the code expired at or before now
func (c *RedeemCode) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// IsExhausted reports whether every use has been claimed
func (c *RedeemCode) IsExhausted() bool {
	return c.Uses >= c.MaxUses
}

// RemainingUses returns how many more users may claim the code
func (c *RedeemCode) RemainingUses() int {
	if c.IsExhausted() {
		return 0
	}
	return c.MaxUses - c.Uses
}

// CodeEdit carries the optional changes of an edit; nil fields are left alone
type CodeEdit struct {
	Amount      *int64
	MaxUses     *int
	ExpiresAt   *time.Time
	ClearExpiry bool
	Note        *string
	Enabled     *bool
}
