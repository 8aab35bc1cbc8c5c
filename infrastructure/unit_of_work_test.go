package infrastructure

import (
	"context"
	"errors"
	"testing"

	"guildledger/application"
	"guildledger/domain/interfaces"
	"guildledger/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUnitOfWork records transaction calls without touching a database
type stubUnitOfWork struct {
	application.UnitOfWork
	began, committed, rolledBack bool
	commitErr                    error
}

func (s *stubUnitOfWork) Begin(ctx context.Context) error { s.began = true; return nil }

func (s *stubUnitOfWork) Commit() error {
	if s.commitErr != nil {
		return s.commitErr
	}
	s.committed = true
	return nil
}

func (s *stubUnitOfWork) Rollback() error { s.rolledBack = true; return nil }

func newTestUnitOfWork(inner application.UnitOfWork, real interfaces.EventPublisher) *unitOfWork {
	return &unitOfWork{inner: inner, transactionalPublisher: NewTransactionalPublisher(real)}
}

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	real := &recordingPublisher{}
	inner := &stubUnitOfWork{}
	uow := newTestUnitOfWork(inner, real)

	require.NoError(t, uow.Begin(context.Background()))
	require.NoError(t, uow.EventBus().Publish(events.DailyClaimedEvent{GuildID: 1, UserID: 2, Amount: 500}))
	assert.Empty(t, real.PublishedEvents)

	require.NoError(t, uow.Commit())
	assert.True(t, inner.committed)
	assert.Len(t, real.PublishedEvents, 1)

	// Rollback after commit is a harmless no-op for the events
	require.NoError(t, uow.Rollback())
	assert.Len(t, real.PublishedEvents, 1)
}

func TestUnitOfWork_FailedCommitDropsEvents(t *testing.T) {
	real := &recordingPublisher{}
	inner := &stubUnitOfWork{commitErr: errors.New("serialization failure")}
	uow := newTestUnitOfWork(inner, real)

	require.NoError(t, uow.Begin(context.Background()))
	require.NoError(t, uow.EventBus().Publish(events.DailyClaimedEvent{GuildID: 1, UserID: 2, Amount: 500}))

	require.Error(t, uow.Commit())
	require.NoError(t, uow.Rollback())
	require.NoError(t, uow.transactionalPublisher.Flush(context.Background()))
	assert.Empty(t, real.PublishedEvents)
}

func TestUnitOfWork_RollbackDiscardsEvents(t *testing.T) {
	real := &recordingPublisher{}
	inner := &stubUnitOfWork{}
	uow := newTestUnitOfWork(inner, real)

	require.NoError(t, uow.Begin(context.Background()))
	require.NoError(t, uow.EventBus().Publish(events.DailyClaimedEvent{GuildID: 1, UserID: 2, Amount: 500}))
	require.NoError(t, uow.Rollback())

	assert.True(t, inner.rolledBack)
	assert.Equal(t, 0, uow.transactionalPublisher.PendingCount())
	assert.Empty(t, real.PublishedEvents)
}

func TestUnitOfWorkFactory_RegisterLocalHandlerOnBus(t *testing.T) {
	bus := events.NewBus()
	factory := &UnitOfWorkFactory{eventPublisher: bus}

	received := make(chan events.Event, 1)
	factory.RegisterLocalHandler(events.EventTypeDailyClaimed, func(ctx context.Context, event events.Event) {
		received <- event
	})

	event := events.DailyClaimedEvent{GuildID: 1, UserID: 2, Amount: 500}
	require.NoError(t, bus.Publish(event))
	assert.Equal(t, event, <-received)
}
