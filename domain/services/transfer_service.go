package services

import (
	"context"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// MaxGrantAmount caps a single banker grant
const MaxGrantAmount int64 = 100_000_000

// transferService implements the TransferService interface
type transferService struct {
	ledger   interfaces.LedgerService
	settings interfaces.SettingsService
}

// NewTransferService creates a new transfer service
func NewTransferService(ledger interfaces.LedgerService, settings interfaces.SettingsService) interfaces.TransferService {
	return &transferService{
		ledger:   ledger,
		settings: settings,
	}
}

// Give moves currency between two members inside the caller's transaction
func (s *transferService) Give(ctx context.Context, actor entities.Actor, recipientID int64, recipientIsBot bool, amount int64) (int64, int64, error) {
	eff, err := s.settings.Effective(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := CheckChannel(eff, actor); err != nil {
		return 0, 0, err
	}
	if recipientIsBot || recipientID == actor.UserID || recipientID == 0 {
		return 0, 0, apperr.InvalidParameter("you can't give to that user")
	}
	if amount <= 0 {
		return 0, 0, apperr.InvalidParameter("amount must be positive")
	}

	// Lock in ascending id order so opposing transfers can't deadlock
	first, second := actor.UserID, recipientID
	if second < first {
		first, second = second, first
	}
	var senderAvailable int64
	for _, userID := range []int64{first, second} {
		available, err := s.ledger.Available(ctx, userID)
		if err != nil {
			return 0, 0, err
		}
		if userID == actor.UserID {
			senderAvailable = available
		}
	}
	if senderAvailable < amount {
		return 0, 0, apperr.InsufficientBalance(senderAvailable, amount)
	}

	senderBalance, err := s.ledger.Apply(ctx, actor.UserID, -amount, entities.LedgerChange{
		Type:     entities.TransactionTypeGive,
		Metadata: map[string]any{"to": recipientID},
	})
	if err != nil {
		return 0, 0, err
	}
	recipientBalance, err := s.ledger.Apply(ctx, recipientID, amount, entities.LedgerChange{
		Type:     entities.TransactionTypeGive,
		Metadata: map[string]any{"from": actor.UserID},
	})
	if err != nil {
		return 0, 0, err
	}
	return senderBalance, recipientBalance, nil
}

// Grant mints currency for a user
func (s *transferService) Grant(ctx context.Context, actor entities.Actor, userID int64, amount int64, reason string) (int64, error) {
	eff, err := s.settings.Effective(ctx)
	if err != nil {
		return 0, err
	}
	if err := CheckChannel(eff, actor); err != nil {
		return 0, err
	}
	if err := RequireBanker(eff, actor); err != nil {
		return 0, err
	}
	if amount < 1 || amount > MaxGrantAmount {
		return 0, apperr.InvalidParameter("grant amount must be between 1 and %d", MaxGrantAmount)
	}

	metadata := map[string]any{"by": actor.UserID}
	if reason != "" {
		metadata["reason"] = reason
	}
	balance, err := s.ledger.Apply(ctx, userID, amount, entities.LedgerChange{
		Type:     entities.TransactionTypeGrant,
		Metadata: metadata,
	})
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"guildID":  actor.GuildID,
		"bankerID": actor.UserID,
		"userID":   userID,
		"amount":   amount,
	}).Info("Granted currency")
	return balance, nil
}
