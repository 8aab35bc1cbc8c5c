package application

import (
	"context"

	"guildledger/application/dto"
	"guildledger/domain/entities"
	"guildledger/domain/games"

	log "github.com/sirupsen/logrus"
)

// Wagers plays single-shot games
type Wagers interface {
	PlayInstant(ctx context.Context, actor entities.Actor, req dto.InstantWagerDTO) (*dto.WagerResultDTO, error)
}

type wagerHandler struct {
	core *ledgerCore
}

// PlayInstant validates the stake, evaluates the game and settles it in one
// transaction. The outcome is drawn once and reused if the transaction retries.
func (h *wagerHandler) PlayInstant(ctx context.Context, actor entities.Actor, req dto.InstantWagerDTO) (*dto.WagerResultDTO, error) {
	if err := h.core.checkRate(ctx, actor); err != nil {
		return nil, err
	}

	var outcome *games.Outcome
	var result *dto.WagerResultDTO
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		eff, err := s.wagers.CheckStake(ctx, actor, req.Bet)
		if err != nil {
			return err
		}

		if outcome == nil {
			stake := games.Stake{Bet: req.Bet, Edge: eff.HouseEdge, Mode: eff.PayoutMode}
			bet := games.InstantBet{Game: req.Game, Choice: req.Choice, Range: req.Range}
			o, err := games.Play(stake, bet, h.core.rng)
			if err != nil {
				return err
			}
			outcome = &o
		}

		balance, err := s.wagers.Settle(ctx, actor.UserID, *outcome, "")
		if err != nil {
			return err
		}
		result = &dto.WagerResultDTO{Outcome: *outcome, Balance: balance, Currency: eff.Currency}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guildID": actor.GuildID,
		"userID":  actor.UserID,
		"game":    req.Game,
		"bet":     req.Bet,
		"delta":   result.Outcome.Delta,
	}).Info("Instant wager settled")

	return result, nil
}
