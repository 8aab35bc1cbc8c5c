package services

import (
	"context"
	"fmt"
	"strings"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/domain/games"
	"guildledger/domain/interfaces"
)

// settingsService implements the SettingsService interface
type settingsService struct {
	guildID      int64
	settingsRepo interfaces.GuildSettingsRepository
	defaults     entities.EffectiveSettings
}

// NewSettingsService creates a new settings service for one guild
func NewSettingsService(guildID int64, settingsRepo interfaces.GuildSettingsRepository, defaults entities.EffectiveSettings) interfaces.SettingsService {
	return &settingsService{
		guildID:      guildID,
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// Effective layers the guild's override row over the defaults
func (s *settingsService) Effective(ctx context.Context) (entities.EffectiveSettings, error) {
	row, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return entities.EffectiveSettings{}, fmt.Errorf("failed to get guild settings: %w", err)
	}
	eff := row.Merge(s.defaults)
	eff.GuildID = s.guildID
	return eff, nil
}

// Update validates an admin change against the merged result and stores it
func (s *settingsService) Update(ctx context.Context, actor entities.Actor, update entities.SettingsUpdate) (entities.EffectiveSettings, error) {
	if err := RequireAdmin(actor); err != nil {
		return entities.EffectiveSettings{}, err
	}

	row, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return entities.EffectiveSettings{}, fmt.Errorf("failed to get guild settings: %w", err)
	}
	if row == nil {
		row = &entities.GuildSettings{}
	}
	row.GuildID = s.guildID

	if update.IsEmpty() {
		return row.Merge(s.defaults), nil
	}

	if update.MinBet != nil {
		if *update.MinBet < 1 {
			return entities.EffectiveSettings{}, apperr.InvalidParameter("minimum bet must be at least 1")
		}
		row.MinBet = update.MinBet
	}
	if update.MaxBet != nil {
		row.MaxBet = update.MaxBet
	}
	if update.HouseEdge != nil {
		edge := *update.HouseEdge
		if edge >= 1 {
			edge /= 100
		}
		if edge < 0 || edge >= games.MaxHouseEdge {
			return entities.EffectiveSettings{}, apperr.InvalidParameter("house edge must be between 0%% and 50%%")
		}
		row.HouseEdge = &edge
	}
	if update.DailyAmount != nil {
		if *update.DailyAmount < 0 {
			return entities.EffectiveSettings{}, apperr.InvalidParameter("daily amount cannot be negative")
		}
		row.DailyAmount = update.DailyAmount
	}
	if update.Currency != nil {
		currency := normalizeCurrency(*update.Currency)
		if currency == "" {
			return entities.EffectiveSettings{}, apperr.InvalidParameter("currency symbol cannot be empty")
		}
		row.Currency = &currency
	}
	if update.GamblingEnabled != nil {
		row.GamblingEnabled = update.GamblingEnabled
	}
	switch {
	case update.ClearChannel:
		row.GamblingChannelID = ptr(int64(0))
	case update.GamblingChannelID != nil:
		row.GamblingChannelID = update.GamblingChannelID
	}
	switch {
	case update.ClearBankerRole:
		row.BankerRoleID = ptr(int64(0))
	case update.BankerRoleID != nil:
		row.BankerRoleID = update.BankerRoleID
	}
	if update.PayoutMode != nil {
		if !update.PayoutMode.Valid() {
			return entities.EffectiveSettings{}, apperr.InvalidParameter("payout mode must be gross or net")
		}
		row.PayoutMode = update.PayoutMode
	}

	eff := row.Merge(s.defaults)
	if eff.MaxBet < eff.MinBet {
		return entities.EffectiveSettings{}, apperr.InvalidParameter(
			"maximum bet (%d) cannot be below minimum bet (%d)", eff.MaxBet, eff.MinBet)
	}

	if err := s.settingsRepo.Upsert(ctx, row); err != nil {
		return entities.EffectiveSettings{}, fmt.Errorf("failed to update guild settings: %w", err)
	}
	return eff, nil
}

func normalizeCurrency(symbol string) string {
	runes := []rune(strings.TrimSpace(symbol))
	if len(runes) > entities.MaxCurrencyRunes {
		runes = runes[:entities.MaxCurrencyRunes]
	}
	return string(runes)
}

func ptr[T any](v T) *T {
	return &v
}
