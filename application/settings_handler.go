package application

import (
	"context"

	"guildledger/domain/entities"
)

// Settings reads and changes guild configuration
type Settings interface {
	Effective(ctx context.Context, guildID int64) (entities.EffectiveSettings, error)
	Update(ctx context.Context, actor entities.Actor, update entities.SettingsUpdate) (entities.EffectiveSettings, error)
}

type settingsHandler struct {
	core *ledgerCore
}

func (h *settingsHandler) Effective(ctx context.Context, guildID int64) (entities.EffectiveSettings, error) {
	var eff entities.EffectiveSettings
	err := h.core.run(ctx, guildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		var err error
		eff, err = s.settings.Effective(ctx)
		return err
	})
	return eff, err
}

func (h *settingsHandler) Update(ctx context.Context, actor entities.Actor, update entities.SettingsUpdate) (entities.EffectiveSettings, error) {
	var eff entities.EffectiveSettings
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		var err error
		eff, err = s.settings.Update(ctx, actor, update)
		return err
	})
	return eff, err
}
