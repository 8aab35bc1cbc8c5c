package dto

import (
	"guildledger/domain/entities"
)

// BalanceDTO is a member's balance as shown by the balance command
type BalanceDTO struct {
	UserID    int64
	Balance   int64
	Available int64 // Balance minus stakes of open live rounds
	Currency  string
}

// StatsDTO bundles wager statistics with the most recent history entries
type StatsDTO struct {
	UserID   int64
	Stats    *entities.StatsRecord
	Recent   []*entities.HistoryEntry
	Currency string
}

// LeaderboardDTO is the ranked top of a guild
type LeaderboardDTO struct {
	GuildID  int64
	Entries  []entities.LeaderboardEntry
	Currency string
}

// EconomyResultDTO reports the outcome of daily, grant and redeem
type EconomyResultDTO struct {
	Amount   int64
	Balance  int64
	Currency string
}

// TransferResultDTO reports both sides of a give
type TransferResultDTO struct {
	Amount           int64
	SenderBalance    int64
	RecipientBalance int64
	Currency         string
}
