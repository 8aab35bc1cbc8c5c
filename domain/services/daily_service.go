package services

import (
	"context"
	"fmt"
	"time"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/domain/interfaces"
	"guildledger/domain/utils"
	"guildledger/events"

	log "github.com/sirupsen/logrus"
)

// dailyService implements the DailyService interface
type dailyService struct {
	guildID        int64
	ledger         interfaces.LedgerService
	settings       interfaces.SettingsService
	dailyRepo      interfaces.DailyClaimRepository
	eventPublisher interfaces.EventPublisher
	cooldown       time.Duration
}

// NewDailyService creates a new daily reward service for one guild
func NewDailyService(
	guildID int64,
	ledger interfaces.LedgerService,
	settings interfaces.SettingsService,
	dailyRepo interfaces.DailyClaimRepository,
	eventPublisher interfaces.EventPublisher,
	cooldown time.Duration,
) interfaces.DailyService {
	if cooldown <= 0 {
		cooldown = entities.DailyClaimCooldown
	}
	return &dailyService{
		guildID:        guildID,
		ledger:         ledger,
		settings:       settings,
		dailyRepo:      dailyRepo,
		eventPublisher: eventPublisher,
		cooldown:       cooldown,
	}
}

func (s *dailyService) Claim(ctx context.Context, actor entities.Actor, now time.Time) (int64, int64, error) {
	eff, err := s.settings.Effective(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := CheckChannel(eff, actor); err != nil {
		return 0, 0, err
	}
	if err := CheckGamblingEnabled(eff); err != nil {
		return 0, 0, err
	}
	if eff.DailyAmount <= 0 {
		return 0, 0, apperr.InvalidParameter("the daily reward is turned off in this server")
	}

	// Two concurrent claims by one user queue on the account row lock
	if _, err := s.ledger.Available(ctx, actor.UserID); err != nil {
		return 0, 0, err
	}

	last, err := s.dailyRepo.Get(ctx, actor.UserID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get last daily claim: %w", err)
	}
	if remaining := last.Remaining(now, s.cooldown); remaining > 0 {
		return 0, 0, apperr.Cooldown(apperr.ReasonDailyCooldown, remaining,
			"daily already claimed, try again in %s", utils.FormatWait(remaining))
	}

	balance, err := s.ledger.Apply(ctx, actor.UserID, eff.DailyAmount, entities.LedgerChange{
		Type: entities.TransactionTypeDaily,
	})
	if err != nil {
		return 0, 0, err
	}
	if err := s.dailyRepo.Record(ctx, actor.UserID, now); err != nil {
		return 0, 0, fmt.Errorf("failed to record daily claim: %w", err)
	}

	if err := s.eventPublisher.Publish(events.DailyClaimedEvent{
		GuildID: s.guildID,
		UserID:  actor.UserID,
		Amount:  eff.DailyAmount,
	}); err != nil {
		log.WithError(err).Error("Failed to publish daily claimed event")
	}
	return eff.DailyAmount, balance, nil
}
