package application

import (
	"context"

	"guildledger/application/dto"
	"guildledger/domain/entities"
	"guildledger/domain/services"
)

// RecentHistorySize is how many history entries accompany the stats view
const RecentHistorySize = 5

// Ledger exposes balances, history, statistics and the leaderboard
type Ledger interface {
	// Balance is not channel-confined
	Balance(ctx context.Context, guildID, userID int64) (*dto.BalanceDTO, error)

	// ApplyDelta records an arbitrary mutation; used by admin tooling
	ApplyDelta(ctx context.Context, guildID, userID, delta int64, change entities.LedgerChange) (int64, error)

	History(ctx context.Context, guildID, userID int64, limit int) ([]*entities.HistoryEntry, error)
	Stats(ctx context.Context, guildID, userID int64) (*dto.StatsDTO, error)

	// Leaderboard is confined to the gambling channel
	Leaderboard(ctx context.Context, actor entities.Actor) (*dto.LeaderboardDTO, error)
}

type ledgerHandler struct {
	core *ledgerCore
}

func (h *ledgerHandler) Balance(ctx context.Context, guildID, userID int64) (*dto.BalanceDTO, error) {
	var result *dto.BalanceDTO
	err := h.core.run(ctx, guildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		eff, err := s.settings.Effective(ctx)
		if err != nil {
			return err
		}
		balance, err := s.ledger.Balance(ctx, userID)
		if err != nil {
			return err
		}
		result = &dto.BalanceDTO{
			UserID:    userID,
			Balance:   balance,
			Available: balance - h.core.exposure.Exposure(guildID, userID),
			Currency:  eff.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *ledgerHandler) ApplyDelta(ctx context.Context, guildID, userID, delta int64, change entities.LedgerChange) (int64, error) {
	var balance int64
	err := h.core.run(ctx, guildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		var err error
		balance, err = s.ledger.Apply(ctx, userID, delta, change)
		return err
	})
	return balance, err
}

func (h *ledgerHandler) History(ctx context.Context, guildID, userID int64, limit int) ([]*entities.HistoryEntry, error) {
	var entries []*entities.HistoryEntry
	err := h.core.run(ctx, guildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		var err error
		entries, err = s.ledger.History(ctx, userID, limit)
		return err
	})
	return entries, err
}

func (h *ledgerHandler) Stats(ctx context.Context, guildID, userID int64) (*dto.StatsDTO, error) {
	var result *dto.StatsDTO
	err := h.core.run(ctx, guildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		eff, err := s.settings.Effective(ctx)
		if err != nil {
			return err
		}
		stats, err := s.ledger.Stats(ctx, userID)
		if err != nil {
			return err
		}
		recent, err := s.ledger.History(ctx, userID, RecentHistorySize)
		if err != nil {
			return err
		}
		result = &dto.StatsDTO{UserID: userID, Stats: stats, Recent: recent, Currency: eff.Currency}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *ledgerHandler) Leaderboard(ctx context.Context, actor entities.Actor) (*dto.LeaderboardDTO, error) {
	var result *dto.LeaderboardDTO
	err := h.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, s serviceSet) error {
		eff, err := s.settings.Effective(ctx)
		if err != nil {
			return err
		}
		if err := services.CheckChannel(eff, actor); err != nil {
			return err
		}
		entries, err := s.ledger.Leaderboard(ctx, services.LeaderboardSize)
		if err != nil {
			return err
		}
		result = &dto.LeaderboardDTO{GuildID: actor.GuildID, Entries: entries, Currency: eff.Currency}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
