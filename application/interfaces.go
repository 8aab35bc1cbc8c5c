package application

import (
	"context"
	"time"

	"guildledger/application/dto"
	"guildledger/events"
)

// RateLimiter throttles how often a member may wager
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// RoundObserver is notified of live round changes that no player action
// caused: crash ticks, crash busts and idle timeouts. The bot implements it
// to edit round messages.
type RoundObserver interface {
	OnUpdate(round dto.RoundDTO)
	OnSettled(round dto.RoundDTO)
}

// EventSubscriber registers in-process handlers for committed events
type EventSubscriber interface {
	RegisterLocalHandler(eventType events.EventType, handler events.Handler)
}
