package interfaces

import (
	"context"
	"time"

	"guildledger/domain/entities"
	"guildledger/domain/games"
)

// ExposureTracker reports stakes held by a user's open live rounds
type ExposureTracker interface {
	Exposure(guildID, userID int64) int64
}

// SettingsService resolves and updates guild configuration
type SettingsService interface {
	// Effective layers the guild's overrides over the process defaults
	Effective(ctx context.Context) (entities.EffectiveSettings, error)

	// Update validates and stores an admin change, returning the new effective settings
	Update(ctx context.Context, actor entities.Actor, update entities.SettingsUpdate) (entities.EffectiveSettings, error)
}

// LedgerService is the single entry point for balance mutations
type LedgerService interface {
	// Balance returns the stored balance without locking
	Balance(ctx context.Context, userID int64) (int64, error)

	// Available locks the account and returns balance minus open round stakes
	Available(ctx context.Context, userID int64) (int64, error)

	// Apply adds delta, records history and queues a balance change event
	Apply(ctx context.Context, userID int64, delta int64, change entities.LedgerChange) (int64, error)

	// History returns the newest history entries of a user
	History(ctx context.Context, userID int64, limit int) ([]*entities.HistoryEntry, error)

	// Stats returns the user's wager statistics
	Stats(ctx context.Context, userID int64) (*entities.StatsRecord, error)

	// Leaderboard returns the top balances of the guild
	Leaderboard(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)

	// Reset zeroes every balance of the guild, returning how many accounts changed
	Reset(ctx context.Context, actor entities.Actor) (int, error)
}

// WagerService validates stakes and settles wager outcomes
type WagerService interface {
	// CheckStake enforces channel, enabled flag, limits and available balance in that order
	CheckStake(ctx context.Context, actor entities.Actor, bet int64) (entities.EffectiveSettings, error)

	// Settle applies an outcome to the ledger and the user's stats
	Settle(ctx context.Context, userID int64, outcome games.Outcome, roundID string) (int64, error)
}

// DailyService hands out the daily reward
type DailyService interface {
	// Claim credits the daily amount, returning it and the new balance
	Claim(ctx context.Context, actor entities.Actor, now time.Time) (amount int64, balance int64, err error)
}

// TransferService moves currency between members or mints it
type TransferService interface {
	// Give moves amount from the actor to the recipient
	Give(ctx context.Context, actor entities.Actor, recipientID int64, recipientIsBot bool, amount int64) (senderBalance int64, recipientBalance int64, err error)

	// Grant credits a user out of thin air; bankers only
	Grant(ctx context.Context, actor entities.Actor, userID int64, amount int64, reason string) (int64, error)
}

// RedeemService manages redeem codes
type RedeemService interface {
	Create(ctx context.Context, actor entities.Actor, code *entities.RedeemCode) (*entities.RedeemCode, error)
	Redeem(ctx context.Context, actor entities.Actor, code string, now time.Time) (amount int64, balance int64, err error)
	Edit(ctx context.Context, actor entities.Actor, code string, edit entities.CodeEdit) (*entities.RedeemCode, error)
	Delete(ctx context.Context, actor entities.Actor, code string) error
	Disable(ctx context.Context, actor entities.Actor, code string) error
	List(ctx context.Context, actor entities.Actor) ([]*entities.RedeemCode, error)
}
