package infrastructure

import (
	"context"
	"errors"
	"testing"

	"guildledger/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher records published events and optionally fails
type recordingPublisher struct {
	PublishedEvents []events.Event
	FailFor         events.EventType
}

func (r *recordingPublisher) Publish(event events.Event) error {
	if r.FailFor != "" && event.Type() == r.FailFor {
		return errors.New("broker unavailable")
	}
	r.PublishedEvents = append(r.PublishedEvents, event)
	return nil
}

func TestTransactionalPublisher_HoldsEventsUntilFlush(t *testing.T) {
	real := &recordingPublisher{}
	publisher := NewTransactionalPublisher(real)

	first := events.BalanceChangeEvent{GuildID: 1, UserID: 2, OldBalance: 0, NewBalance: 100, ChangeAmount: 100}
	second := events.DailyClaimedEvent{GuildID: 1, UserID: 2, Amount: 100}

	require.NoError(t, publisher.Publish(first))
	require.NoError(t, publisher.Publish(second))

	assert.Empty(t, real.PublishedEvents)
	assert.Equal(t, 2, publisher.PendingCount())

	require.NoError(t, publisher.Flush(context.Background()))

	assert.Equal(t, []events.Event{first, second}, real.PublishedEvents)
	assert.Equal(t, 0, publisher.PendingCount())
}

func TestTransactionalPublisher_DiscardDropsEvents(t *testing.T) {
	real := &recordingPublisher{}
	publisher := NewTransactionalPublisher(real)

	require.NoError(t, publisher.Publish(events.DailyClaimedEvent{GuildID: 1, UserID: 2, Amount: 100}))
	publisher.Discard()

	require.NoError(t, publisher.Flush(context.Background()))
	assert.Empty(t, real.PublishedEvents)
}

func TestTransactionalPublisher_FlushContinuesAfterFailure(t *testing.T) {
	real := &recordingPublisher{FailFor: events.EventTypeWagerSettled}
	publisher := NewTransactionalPublisher(real)

	settled := events.WagerSettledEvent{GuildID: 1, UserID: 2, Bet: 100, Delta: -100, Result: "lose"}
	changed := events.BalanceChangeEvent{GuildID: 1, UserID: 2, OldBalance: 1000, NewBalance: 900, ChangeAmount: -100}

	require.NoError(t, publisher.Publish(settled))
	require.NoError(t, publisher.Publish(changed))

	err := publisher.Flush(context.Background())
	require.NoError(t, err)

	require.Len(t, real.PublishedEvents, 1)
	assert.Equal(t, changed, real.PublishedEvents[0])
}
