package application

import (
	"context"

	"guildledger/events"
	"guildledger/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// RegisterApplicationSubscriptions wires the in-process consumers of committed
// events: metrics and audit log lines
func RegisterApplicationSubscriptions(subscriber EventSubscriber) {
	subscriber.RegisterLocalHandler(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		observability.GetMetrics().RecordBalanceTransaction(e.TransactionType.String())
		log.WithFields(log.Fields{
			"guildID":         e.GuildID,
			"userID":          e.UserID,
			"oldBalance":      e.OldBalance,
			"newBalance":      e.NewBalance,
			"transactionType": e.TransactionType,
		}).Debug("Balance changed")
	})

	subscriber.RegisterLocalHandler(events.EventTypeWagerSettled, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.WagerSettledEvent); ok {
			observability.GetMetrics().RecordWagerSettled(e.Game.String(), e.Result)
		}
	})

	subscriber.RegisterLocalHandler(events.EventTypeCodeRedeemed, func(ctx context.Context, event events.Event) {
		if _, ok := event.(events.CodeRedeemedEvent); ok {
			observability.GetMetrics().RecordRedemption(observability.OutcomeSuccess)
		}
	})

	subscriber.RegisterLocalHandler(events.EventTypeRoundExpired, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.RoundExpiredEvent)
		if !ok {
			return
		}
		observability.GetMetrics().RecordRoundTimeout(e.Game.String())
		log.WithFields(log.Fields{
			"guildID": e.GuildID,
			"userID":  e.UserID,
			"roundID": e.RoundID,
			"game":    e.Game,
		}).Info("Idle round expired")
	})

	subscriber.RegisterLocalHandler(events.EventTypeDailyClaimed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.DailyClaimedEvent); ok {
			log.WithFields(log.Fields{
				"guildID": e.GuildID,
				"userID":  e.UserID,
				"amount":  e.Amount,
			}).Debug("Daily reward claimed")
		}
	})
}
