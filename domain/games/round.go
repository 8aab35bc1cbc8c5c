package games

import (
	"guildledger/domain/apperr"
	"guildledger/domain/entities"
)

// Phase is the state of a live round
type Phase string

const (
	PhasePlayerTurn Phase = "player_turn"
	PhaseDealerTurn Phase = "dealer_turn"
	PhaseOpen       Phase = "open"
	PhaseRising     Phase = "rising"
	PhaseCashed     Phase = "cashed"
	PhaseBusted     Phase = "busted"
	PhaseSettled    Phase = "settled"
)

// IsTerminal reports whether no further actions are accepted
func (p Phase) IsTerminal() bool {
	return p == PhaseSettled || p == PhaseCashed || p == PhaseBusted
}

// Action is a player decision on a live round
type Action string

const (
	ActionHit     Action = "hit"
	ActionStand   Action = "stand"
	ActionDouble  Action = "double"
	ActionCashOut Action = "cashout"
	ActionHigher  Action = "higher"
	ActionLower   Action = "lower"
)

// Round is a multi-step wager that stays open across interactions
type Round interface {
	Game() entities.TransactionType
	Phase() Phase
	// Exposure is the stake currently at risk
	Exposure() int64
	Act(action Action) error
	// Expire resolves an abandoned round to its terminal loss. It is a no-op
	// on a round that already finished.
	Expire()
	// Outcome returns the settled result once the round is terminal
	Outcome() (Outcome, bool)
}

func unsupported(game entities.TransactionType, action Action) error {
	return apperr.InvalidParameter("%s does not support %s", game, action)
}
