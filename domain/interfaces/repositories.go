package interfaces

import (
	"context"
	"time"

	"guildledger/domain/entities"
	"guildledger/events"
)

// Every repository is bound to one guild and one transaction by the unit of
// work that hands it out, so guild ids never appear in these signatures.

// AccountRepository defines ledger balance access
type AccountRepository interface {
	// GetBalance returns the balance, or 0 if the account does not exist
	GetBalance(ctx context.Context, userID int64) (int64, error)

	// ApplyDelta atomically adds delta (which may be negative) to the balance,
	// creating the account if needed, and returns the new balance
	ApplyDelta(ctx context.Context, userID int64, delta int64) (int64, error)

	// LockBalance creates the account if needed, row-locks it for the rest of
	// the transaction and returns the balance
	LockBalance(ctx context.Context, userID int64) (int64, error)

	// TopBalances returns the highest balances in descending order
	TopBalances(ctx context.Context, limit int) ([]*entities.Account, error)

	// ResetAll zeroes every balance and returns the accounts as they were before
	ResetAll(ctx context.Context) ([]*entities.Account, error)
}

// GuildSettingsRepository defines per-guild override access
type GuildSettingsRepository interface {
	// Get returns the override row, or nil if the guild has none
	Get(ctx context.Context) (*entities.GuildSettings, error)

	// Upsert writes the full override row
	Upsert(ctx context.Context, settings *entities.GuildSettings) error
}

// StatsRepository defines wager statistics access
type StatsRepository interface {
	// Get returns the record, zero-valued if the user never wagered
	Get(ctx context.Context, userID int64) (*entities.StatsRecord, error)

	// RecordWager folds one wager delta into the user's record
	RecordWager(ctx context.Context, userID int64, delta int64) error
}

// HistoryRepository defines the capped per-user mutation log
type HistoryRepository interface {
	// Append inserts an entry and evicts entries beyond the newest MaxHistoryEntries
	Append(ctx context.Context, entry *entities.HistoryEntry) error

	// ListByUser returns the newest entries first
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.HistoryEntry, error)
}

// DailyClaimRepository defines daily reward bookkeeping
type DailyClaimRepository interface {
	// Get returns the last claim, or nil if the user never claimed
	Get(ctx context.Context, userID int64) (*entities.DailyClaim, error)

	// Record stores the claim time
	Record(ctx context.Context, userID int64, at time.Time) error
}

// RedeemCodeRepository defines redeem code and claim access
type RedeemCodeRepository interface {
	// Create inserts a new code; a duplicate yields a code_already_exists error
	Create(ctx context.Context, code *entities.RedeemCode) error

	// Get returns the code, or nil if it does not exist
	Get(ctx context.Context, code string) (*entities.RedeemCode, error)

	// GetForUpdate is Get with a row lock held until the transaction ends
	GetForUpdate(ctx context.Context, code string) (*entities.RedeemCode, error)

	// Update writes the mutable fields of a code
	Update(ctx context.Context, code *entities.RedeemCode) error

	// Delete removes a code and its claims, reporting whether it existed
	Delete(ctx context.Context, code string) (bool, error)

	// List returns all codes of the guild, newest first
	List(ctx context.Context) ([]*entities.RedeemCode, error)

	// HasClaimed reports whether the user already claimed the code
	HasClaimed(ctx context.Context, code string, userID int64) (bool, error)

	// AddClaim records the user's claim
	AddClaim(ctx context.Context, code string, userID int64, at time.Time) error
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the owning transaction ends
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes the buffered events; call after commit
	Flush(ctx context.Context) error

	// Discard drops the buffered events; call after rollback
	Discard()
}
