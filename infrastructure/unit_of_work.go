package infrastructure

import (
	"context"
	"time"

	"guildledger/application"
	"guildledger/domain/interfaces"
	"guildledger/infrastructure/observability"
)

// unitOfWork wraps the repository UnitOfWork, flushing queued events after commit
type unitOfWork struct {
	inner                  application.UnitOfWork
	transactionalPublisher *TransactionalPublisher
	ctx                    context.Context
	startedAt              time.Time
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	u.ctx = ctx
	u.startedAt = time.Now()
	return u.inner.Begin(ctx)
}

// Commit commits the transaction and flushes events on success
func (u *unitOfWork) Commit() error {
	if err := u.inner.Commit(); err != nil {
		u.transactionalPublisher.Discard()
		u.recordDuration(observability.OutcomeRollback)
		return err
	}
	u.recordDuration(observability.OutcomeCommit)

	// Events are best-effort once the transaction is durable
	_ = u.transactionalPublisher.Flush(u.ctx)
	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	u.transactionalPublisher.Discard()
	if !u.startedAt.IsZero() {
		u.recordDuration(observability.OutcomeRollback)
	}
	return u.inner.Rollback()
}

func (u *unitOfWork) recordDuration(outcome string) {
	observability.GetMetrics().RecordTransaction(outcome, time.Since(u.startedAt))
	u.startedAt = time.Time{}
}

// Repository getters - delegate to inner UnitOfWork
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	return u.inner.AccountRepository()
}

func (u *unitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	return u.inner.GuildSettingsRepository()
}

func (u *unitOfWork) StatsRepository() interfaces.StatsRepository {
	return u.inner.StatsRepository()
}

func (u *unitOfWork) HistoryRepository() interfaces.HistoryRepository {
	return u.inner.HistoryRepository()
}

func (u *unitOfWork) DailyClaimRepository() interfaces.DailyClaimRepository {
	return u.inner.DailyClaimRepository()
}

func (u *unitOfWork) RedeemCodeRepository() interfaces.RedeemCodeRepository {
	return u.inner.RedeemCodeRepository()
}

// EventBus returns the transactional event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalPublisher
}
