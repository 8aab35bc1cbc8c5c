package dto

import (
	"guildledger/domain/entities"
	"guildledger/domain/games"
)

// InstantWagerDTO is a request to play a single-shot game
type InstantWagerDTO struct {
	Game   entities.TransactionType
	Bet    int64
	Choice string
	Range  int // guess only
}

// WagerResultDTO is a settled instant wager
type WagerResultDTO struct {
	Outcome  games.Outcome
	Balance  int64
	Currency string
}

// RoundDTO is a snapshot of a live round for rendering
type RoundDTO struct {
	ID        string
	GuildID   int64
	UserID    int64
	ChannelID int64
	Game      entities.TransactionType
	Bet       int64
	Phase     games.Phase
	Currency  string

	// Blackjack
	PlayerCards []string
	PlayerTotal int
	DealerCards []string // Only the up card while the player is acting
	DealerTotal int
	CanDouble   bool

	// Hi-lo
	BaseCard string
	NextCard string

	// Crash
	Multiplier float64
	BustPoint  float64 // Revealed once the round is over

	// Set once the round has been applied to the ledger
	Settled bool
	Expired bool
	Outcome *games.Outcome
	Balance int64
}
