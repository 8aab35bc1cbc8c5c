package utils

import (
	"context"
	"fmt"

	"guildledger/domain/entities"
	"guildledger/domain/interfaces"
	"guildledger/events"

	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange appends the history entry and queues a BalanceChangeEvent.
// Every balance mutation goes through here after the delta is applied.
func RecordBalanceChange(ctx context.Context, historyRepo interfaces.HistoryRepository, eventPublisher interfaces.EventPublisher, entry *entities.HistoryEntry) error {
	if err := historyRepo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	event := events.BalanceChangeEvent{
		GuildID:         entry.GuildID,
		UserID:          entry.UserID,
		OldBalance:      entry.BalanceBefore(),
		NewBalance:      entry.BalanceAfter,
		ChangeAmount:    entry.Delta,
		TransactionType: entry.Game,
	}
	log.WithFields(log.Fields{
		"guildID":         event.GuildID,
		"userID":          event.UserID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return nil
}
