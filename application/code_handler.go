package application

import (
	"context"

	"guildledger/application/dto"
	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/infrastructure/observability"
)

// Codes manages redeem codes
type Codes interface {
	Create(ctx context.Context, actor entities.Actor, code *entities.RedeemCode) (*entities.RedeemCode, error)
	Redeem(ctx context.Context, actor entities.Actor, code string) (*dto.EconomyResultDTO, error)
	Edit(ctx context.Context, actor entities.Actor, code string, edit entities.CodeEdit) (*entities.RedeemCode, error)
	Delete(ctx context.Context, actor entities.Actor, code string) error
	Disable(ctx context.Context, actor entities.Actor, code string) error
	List(ctx context.Context, actor entities.Actor) ([]*entities.RedeemCode, error)
}

type codeHandler struct {
	core *ledgerCore
}

func (h *codeHandler) Create(ctx context.Context, actor entities.Actor, code *entities.RedeemCode) (*entities.RedeemCode, error) {
	var created *entities.RedeemCode
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		// Work on a copy so a retried attempt starts from the caller's input
		attempt := *code
		var err error
		created, err = s.codes.Create(ctx, actor, &attempt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Redeem claims a code. Concurrent redeemers of one code serialise on its row lock.
func (h *codeHandler) Redeem(ctx context.Context, actor entities.Actor, code string) (*dto.EconomyResultDTO, error) {
	var result *dto.EconomyResultDTO
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		amount, balance, err := s.codes.Redeem(ctx, actor, code, h.core.now())
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
		if apperr.KindOf(err) == apperr.KindCodeInvalid {
			observability.GetMetrics().RecordRedemption(string(apperr.ReasonOf(err)))
		}
		return nil, err
	}
	return result, nil
}

func (h *codeHandler) Edit(ctx context.Context, actor entities.Actor, code string, edit entities.CodeEdit) (*entities.RedeemCode, error) {
	var updated *entities.RedeemCode
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		var err error
		updated, err = s.codes.Edit(ctx, actor, code, edit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (h *codeHandler) Delete(ctx context.Context, actor entities.Actor, code string) error {
	return h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		return s.codes.Delete(ctx, actor, code)
	})
}

func (h *codeHandler) Disable(ctx context.Context, actor entities.Actor, code string) error {
	return h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		return s.codes.Disable(ctx, actor, code)
	})
}

func (h *codeHandler) List(ctx context.Context, actor entities.Actor) ([]*entities.RedeemCode, error) {
	var codes []*entities.RedeemCode
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		var err error
		codes, err = s.codes.List(ctx, actor)
		return err
	})
	return codes, err
}
