package application

import (
	"context"

	"guildledger/application/dto"
	"guildledger/domain/entities"

	log "github.com/sirupsen/logrus"
)

// Economy covers the non-wager balance operations
type Economy interface {
	ClaimDaily(ctx context.Context, actor entities.Actor) (*dto.EconomyResultDTO, error)
	Give(ctx context.Context, actor entities.Actor, recipientID int64, recipientIsBot bool, amount int64) (*dto.TransferResultDTO, error)
	Grant(ctx context.Context, actor entities.Actor, userID int64, amount int64, reason string) (*dto.EconomyResultDTO, error)
	// ResetGuild zeroes every balance of the actor's guild
	ResetGuild(ctx context.Context, actor entities.Actor) (int, error)
}

type economyHandler struct {
	core *ledgerCore
}

func (h *economyHandler) ClaimDaily(ctx context.Context, actor entities.Actor) (*dto.EconomyResultDTO, error) {
	var result *dto.EconomyResultDTO
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		amount, balance, err := s.daily.Claim(ctx, actor, h.core.now())
		if err != nil {
			return err
		}
		eff, err := s.settings.Effective(ctx)
		if err != nil {
			return err
		}
		result = &dto.EconomyResultDTO{Amount: amount, Balance: balance, Currency: eff.Currency}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *economyHandler) Give(ctx context.Context, actor entities.Actor, recipientID int64, recipientIsBot bool, amount int64) (*dto.TransferResultDTO, error) {
	var result *dto.TransferResultDTO
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		senderBalance, recipientBalance, err := s.transfers.Give(ctx, actor, recipientID, recipientIsBot, amount)
		if err != nil {
			return err
		}
		eff, err := s.settings.Effective(ctx)
		if err != nil {
			return err
		}
		result = &dto.TransferResultDTO{
			Amount:           amount,
			SenderBalance:    senderBalance,
			RecipientBalance: recipientBalance,
			Currency:         eff.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *economyHandler) Grant(ctx context.Context, actor entities.Actor, userID int64, amount int64, reason string) (*dto.EconomyResultDTO, error) {
	var result *dto.EconomyResultDTO
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		balance, err := s.transfers.Grant(ctx, actor, userID, amount, reason)
		if err != nil {
			return err
		}
		eff, err := s.settings.Effective(ctx)
		if err != nil {
			return err
		}
		result = &dto.EconomyResultDTO{Amount: amount, Balance: balance, Currency: eff.Currency}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *economyHandler) ResetGuild(ctx context.Context, actor entities.Actor) (int, error) {
	var count int
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		var err error
		count, err = s.ledger.Reset(ctx, actor)
		return err
	})
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"guildID":  actor.GuildID,
		"actorID":  actor.UserID,
		"accounts": count,
	}).Warn("Guild economy reset")
	return count, nil
}
