package services

import (
	"guildledger/config"
	"guildledger/domain/apperr"
	"guildledger/domain/entities"
)

// DefaultSettings builds the process-wide settings every guild inherits
func DefaultSettings(cfg *config.Config) entities.EffectiveSettings {
	return entities.EffectiveSettings{
		MinBet:            cfg.DefaultMinBet,
		MaxBet:            cfg.DefaultMaxBet,
		HouseEdge:         cfg.DefaultHouseEdge,
		DailyAmount:       cfg.DefaultDailyAmount,
		Currency:          cfg.DefaultCurrency,
		GamblingEnabled:   cfg.DefaultGamblingEnabled,
		GamblingChannelID: cfg.DefaultGamblingChannel,
		BankerRoleID:      cfg.DefaultBankerRoleID,
		PayoutMode:        entities.PayoutMode(cfg.DefaultPayoutMode),
	}
}

// CheckChannel rejects commands issued outside the guild's gambling channel
func CheckChannel(settings entities.EffectiveSettings, actor entities.Actor) error {
	if settings.HasGamblingChannel() && actor.ChannelID != settings.GamblingChannelID {
		return apperr.Unauthorized(apperr.ReasonWrongChannel,
			"this command only works in <#%d>", settings.GamblingChannelID)
	}
	return nil
}

// CheckGamblingEnabled rejects wagers while the guild has gambling switched off
func CheckGamblingEnabled(settings entities.EffectiveSettings) error {
	if !settings.GamblingEnabled {
		return apperr.Validation(apperr.ReasonGamblingDisabled, "gambling is disabled in this server")
	}
	return nil
}

// ValidateBetLimits enforces MinBet <= bet <= MaxBet
func ValidateBetLimits(settings entities.EffectiveSettings, bet int64) error {
	if bet < settings.MinBet {
		return apperr.Validation(apperr.ReasonBetBelowMin, "minimum bet is %d", settings.MinBet)
	}
	if bet > settings.MaxBet {
		return apperr.Validation(apperr.ReasonBetAboveMax, "maximum bet is %d", settings.MaxBet)
	}
	return nil
}

// IsBanker reports whether the actor may mint currency and manage codes
func IsBanker(settings entities.EffectiveSettings, actor entities.Actor) bool {
	return actor.CanManageGuild || actor.HasRole(settings.BankerRoleID)
}

// RequireBanker fails unless the actor is a banker
func RequireBanker(settings entities.EffectiveSettings, actor entities.Actor) error {
	if !IsBanker(settings, actor) {
		return apperr.Unauthorized(apperr.ReasonNotBanker, "only bankers can do that")
	}
	return nil
}

// RequireAdmin fails unless the actor can manage the guild
func RequireAdmin(actor entities.Actor) error {
	if !actor.CanManageGuild {
		return apperr.Unauthorized(apperr.ReasonNotAdmin, "you need the Manage Server permission")
	}
	return nil
}
