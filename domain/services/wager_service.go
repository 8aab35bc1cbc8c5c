package services

import (
	"context"
	"fmt"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/domain/games"
	"guildledger/domain/interfaces"
	"guildledger/events"

	log "github.com/sirupsen/logrus"
)

// wagerService implements the WagerService interface
type wagerService struct {
	guildID        int64
	ledger         interfaces.LedgerService
	settings       interfaces.SettingsService
	statsRepo      interfaces.StatsRepository
	eventPublisher interfaces.EventPublisher
}

// NewWagerService creates a new wager service for one guild
func NewWagerService(
	guildID int64,
	ledger interfaces.LedgerService,
	settings interfaces.SettingsService,
	statsRepo interfaces.StatsRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.WagerService {
	return &wagerService{
		guildID:        guildID,
		ledger:         ledger,
		settings:       settings,
		statsRepo:      statsRepo,
		eventPublisher: eventPublisher,
	}
}

// CheckStake validates a bet and returns the settings the wager must be played under
func (s *wagerService) CheckStake(ctx context.Context, actor entities.Actor, bet int64) (entities.EffectiveSettings, error) {
	eff, err := s.settings.Effective(ctx)
	if err != nil {
		return entities.EffectiveSettings{}, err
	}
	if err := CheckChannel(eff, actor); err != nil {
		return entities.EffectiveSettings{}, err
	}
	if err := CheckGamblingEnabled(eff); err != nil {
		return entities.EffectiveSettings{}, err
	}
	if err := ValidateBetLimits(eff, bet); err != nil {
		return entities.EffectiveSettings{}, err
	}

	available, err := s.ledger.Available(ctx, actor.UserID)
	if err != nil {
		return entities.EffectiveSettings{}, err
	}
	if available < bet {
		return entities.EffectiveSettings{}, apperr.InsufficientBalance(available, bet)
	}
	return eff, nil
}

// Settle books an outcome: balance, history, stats and the settled event
func (s *wagerService) Settle(ctx context.Context, userID int64, outcome games.Outcome, roundID string) (int64, error) {
	metadata := outcome.Metadata()
	if roundID != "" {
		metadata["round_id"] = roundID
	}

	newBalance, err := s.ledger.Apply(ctx, userID, outcome.Delta, entities.LedgerChange{
		Type:     outcome.Game,
		Bet:      outcome.Bet,
		Metadata: metadata,
	})
	if err != nil {
		return 0, err
	}

	if err := s.statsRepo.RecordWager(ctx, userID, outcome.Delta); err != nil {
		return 0, fmt.Errorf("failed to record wager stats: %w", err)
	}

	if err := s.eventPublisher.Publish(events.WagerSettledEvent{
		GuildID: s.guildID,
		UserID:  userID,
		Game:    outcome.Game,
		Bet:     outcome.Bet,
		Delta:   outcome.Delta,
		Result:  string(outcome.Result),
		RoundID: roundID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish wager settled event")
	}

	return newBalance, nil
}
