package testutil

import (
	"time"

	"guildledger/domain/entities"
)

// NewTestCode returns a redeem code with sensible defaults
func NewTestCode(code string, amount int64, maxUses int) *entities.RedeemCode {
	return &entities.RedeemCode{
		Code:      entities.NormalizeCode(code),
		Amount:    amount,
		MaxUses:   maxUses,
		CreatedBy: 1,
	}
}

// NewExpiringTestCode returns a code that expires at the given time
func NewExpiringTestCode(code string, amount int64, maxUses int, expiresAt time.Time) *entities.RedeemCode {
	rc := NewTestCode(code, amount, maxUses)
	rc.ExpiresAt = &expiresAt
	return rc
}

// Actor returns an unprivileged actor in the given guild
func Actor(guildID, userID int64) entities.Actor {
	return entities.Actor{GuildID: guildID, UserID: userID}
}

// Admin returns an actor holding the Manage Server permission
func Admin(guildID, userID int64) entities.Actor {
	a := Actor(guildID, userID)
	a.CanManageGuild = true
	return a
}
