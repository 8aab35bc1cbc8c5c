package events

import (
	"context"
	"sync"

	"guildledger/domain/entities"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeWagerSettled  EventType = "wager_settled"
	EventTypeCodeRedeemed  EventType = "code_redeemed"
	EventTypeRoundExpired  EventType = "round_expired"
	EventTypeDailyClaimed  EventType = "daily_claimed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted for every committed balance mutation
type BalanceChangeEvent struct {
	GuildID         int64                    `json:"guild_id"`
	UserID          int64                    `json:"user_id"`
	OldBalance      int64                    `json:"old_balance"`
	NewBalance      int64                    `json:"new_balance"`
	ChangeAmount    int64                    `json:"change_amount"`
	TransactionType entities.TransactionType `json:"transaction_type"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// WagerSettledEvent describes the outcome of a settled wager
type WagerSettledEvent struct {
	GuildID int64                    `json:"guild_id"`
	UserID  int64                    `json:"user_id"`
	Game    entities.TransactionType `json:"game"`
	Bet     int64                    `json:"bet"`
	Delta   int64                    `json:"delta"`
	Result  string                   `json:"result"`
	RoundID string                   `json:"round_id,omitempty"`
}

func (e WagerSettledEvent) Type() EventType {
	return EventTypeWagerSettled
}

// CodeRedeemedEvent is emitted when a user claims a redeem code
type CodeRedeemedEvent struct {
	GuildID       int64  `json:"guild_id"`
	UserID        int64  `json:"user_id"`
	Code          string `json:"code"`
	Amount        int64  `json:"amount"`
	RemainingUses int    `json:"remaining_uses"`
}

func (e CodeRedeemedEvent) Type() EventType {
	return EventTypeCodeRedeemed
}

// RoundExpiredEvent is emitted when an idle live round is force-settled
type RoundExpiredEvent struct {
	GuildID int64                    `json:"guild_id"`
	UserID  int64                    `json:"user_id"`
	RoundID string                   `json:"round_id"`
	Game    entities.TransactionType `json:"game"`
	Bet     int64                    `json:"bet"`
	Delta   int64                    `json:"delta"`
}

func (e RoundExpiredEvent) Type() EventType {
	return EventTypeRoundExpired
}

// DailyClaimedEvent is emitted when a user collects the daily reward
type DailyClaimedEvent struct {
	GuildID int64 `json:"guild_id"`
	UserID  int64 `json:"user_id"`
	Amount  int64 `json:"amount"`
}

func (e DailyClaimedEvent) Type() EventType {
	return EventTypeDailyClaimed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus is the in-process publisher used when no message broker is configured
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Publish dispatches the event to all subscribers. It never fails.
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// Emit calls every handler for the event's type on its own goroutine
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}
