package application

import (
	"context"

	"guildledger/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() interfaces.AccountRepository
	GuildSettingsRepository() interfaces.GuildSettingsRepository
	StatsRepository() interfaces.StatsRepository
	HistoryRepository() interfaces.HistoryRepository
	DailyClaimRepository() interfaces.DailyClaimRepository
	RedeemCodeRepository() interfaces.RedeemCodeRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork instance scoped to a specific guild
	CreateForGuild(guildID int64) UnitOfWork
}
