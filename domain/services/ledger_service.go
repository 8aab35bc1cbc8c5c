package services

import (
	"context"
	"fmt"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/domain/interfaces"
	"guildledger/domain/utils"

	log "github.com/sirupsen/logrus"
)

// LeaderboardSize is how many accounts the leaderboard shows
const LeaderboardSize = 10

// ledgerService implements the LedgerService interface
type ledgerService struct {
	guildID        int64
	accountRepo    interfaces.AccountRepository
	historyRepo    interfaces.HistoryRepository
	statsRepo      interfaces.StatsRepository
	eventPublisher interfaces.EventPublisher
	exposure       interfaces.ExposureTracker
}

// NewLedgerService creates a new ledger service for one guild
func NewLedgerService(
	guildID int64,
	accountRepo interfaces.AccountRepository,
	historyRepo interfaces.HistoryRepository,
	statsRepo interfaces.StatsRepository,
	eventPublisher interfaces.EventPublisher,
	exposure interfaces.ExposureTracker,
) interfaces.LedgerService {
	return &ledgerService{
		guildID:        guildID,
		accountRepo:    accountRepo,
		historyRepo:    historyRepo,
		statsRepo:      statsRepo,
		eventPublisher: eventPublisher,
		exposure:       exposure,
	}
}

func (s *ledgerService) Balance(ctx context.Context, userID int64) (int64, error) {
	balance, err := s.accountRepo.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Available row-locks the account, so concurrent stake checks on one user serialise
func (s *ledgerService) Available(ctx context.Context, userID int64) (int64, error) {
	balance, err := s.accountRepo.LockBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock account: %w", err)
	}
	if s.exposure == nil {
		return balance, nil
	}
	return balance - s.exposure.Exposure(s.guildID, userID), nil
}

func (s *ledgerService) Apply(ctx context.Context, userID int64, delta int64, change entities.LedgerChange) (int64, error) {
	newBalance, err := s.accountRepo.ApplyDelta(ctx, userID, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	entry := &entities.HistoryEntry{
		GuildID:      s.guildID,
		UserID:       userID,
		Game:         change.Type,
		Bet:          change.Bet,
		Delta:        delta,
		BalanceAfter: newBalance,
		Metadata:     change.Metadata,
	}
	if err := utils.RecordBalanceChange(ctx, s.historyRepo, s.eventPublisher, entry); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (s *ledgerService) History(ctx context.Context, userID int64, limit int) ([]*entities.HistoryEntry, error) {
	if limit <= 0 || limit > entities.MaxHistoryEntries {
		limit = entities.MaxHistoryEntries
	}
	entries, err := s.historyRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return entries, nil
}

func (s *ledgerService) Stats(ctx context.Context, userID int64) (*entities.StatsRecord, error) {
	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// Leaderboard ranks the guild's accounts by balance, highest first
func (s *ledgerService) Leaderboard(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = LeaderboardSize
	}
	accounts, err := s.accountRepo.TopBalances(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", err)
	}

	entries := make([]entities.LeaderboardEntry, len(accounts))
	for i, account := range accounts {
		entries[i] = entities.LeaderboardEntry{
			Rank:    i + 1,
			UserID:  account.UserID,
			Balance: account.Balance,
		}
	}
	return entries, nil
}

// Reset zeroes every balance of the guild and logs a reset entry per changed account
func (s *ledgerService) Reset(ctx context.Context, actor entities.Actor) (int, error) {
	if err := RequireAdmin(actor); err != nil {
		return 0, err
	}

	accounts, err := s.accountRepo.ResetAll(ctx)
	if err != nil {
		return 0, apperr.AsPersistence("reset balances", err)
	}

	changed := 0
	for _, account := range accounts {
		if account.Balance == 0 {
			continue
		}
		entry := &entities.HistoryEntry{
			GuildID:      s.guildID,
			UserID:       account.UserID,
			Game:         entities.TransactionTypeReset,
			Delta:        -account.Balance,
			BalanceAfter: 0,
			Metadata:     map[string]any{"by": actor.UserID},
		}
		if err := utils.RecordBalanceChange(ctx, s.historyRepo, s.eventPublisher, entry); err != nil {
			return 0, err
		}
		changed++
	}

	log.WithFields(log.Fields{
		"guildID":  s.guildID,
		"actorID":  actor.UserID,
		"accounts": changed,
	}).Info("Guild balances reset")
	return changed, nil
}
