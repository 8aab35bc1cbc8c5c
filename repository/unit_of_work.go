package repository

import (
	"context"
	"errors"
	"fmt"

	"guildledger/application"
	"guildledger/database"
	"guildledger/domain/apperr"
	"guildledger/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const notStarted = "unit of work not started - call Begin() first"

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	guildID                int64
	transactionalPublisher interfaces.TransactionalEventPublisher
	accountRepo            interfaces.AccountRepository
	settingsRepo           interfaces.GuildSettingsRepository
	statsRepo              interfaces.StatsRepository
	historyRepo            interfaces.HistoryRepository
	dailyRepo              interfaces.DailyClaimRepository
	codeRepo               interfaces.RedeemCodeRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db: db,
	}
}

type unitOfWorkFactory struct {
	db *database.DB
}

// CreateForGuild creates a UnitOfWork without an event bus
func (f *unitOfWorkFactory) CreateForGuild(guildID int64) application.UnitOfWork {
	return f.CreateForGuildWithPublisher(guildID, nil)
}

// CreateForGuildWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateForGuildWithPublisher(guildID int64, transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		guildID:                guildID,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return apperr.Persistence("begin transaction", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create guild-scoped repositories with the transaction
	u.accountRepo = newAccountRepository(tx, u.guildID)
	u.settingsRepo = newGuildSettingsRepository(tx, u.guildID)
	u.statsRepo = newStatsRepository(tx, u.guildID)
	u.historyRepo = newHistoryRepository(tx, u.guildID)
	u.dailyRepo = newDailyClaimRepository(tx, u.guildID)
	u.codeRepo = newRedeemCodeRepository(tx, u.guildID)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		if u.transactionalPublisher != nil {
			u.transactionalPublisher.Discard()
		}
		return apperr.Persistence("commit transaction", err)
	}

	// Flush pending events after successful commit
	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic(notStarted)
	}
	return u.accountRepo
}

// GuildSettingsRepository returns the guild settings repository for this unit of work
func (u *unitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	if u.settingsRepo == nil {
		panic(notStarted)
	}
	return u.settingsRepo
}

// StatsRepository returns the stats repository for this unit of work
func (u *unitOfWork) StatsRepository() interfaces.StatsRepository {
	if u.statsRepo == nil {
		panic(notStarted)
	}
	return u.statsRepo
}

// HistoryRepository returns the history repository for this unit of work
func (u *unitOfWork) HistoryRepository() interfaces.HistoryRepository {
	if u.historyRepo == nil {
		panic(notStarted)
	}
	return u.historyRepo
}

// DailyClaimRepository returns the daily claim repository for this unit of work
func (u *unitOfWork) DailyClaimRepository() interfaces.DailyClaimRepository {
	if u.dailyRepo == nil {
		panic(notStarted)
	}
	return u.dailyRepo
}

// RedeemCodeRepository returns the redeem code repository for this unit of work
func (u *unitOfWork) RedeemCodeRepository() interfaces.RedeemCodeRepository {
	if u.codeRepo == nil {
		panic(notStarted)
	}
	return u.codeRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("transactional publisher not configured")
	}
	return u.transactionalPublisher
}
