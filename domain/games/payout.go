package games

import (
	"guildledger/domain/apperr"
	"guildledger/domain/entities"

	"github.com/shopspring/decimal"
)

// MaxHouseEdge is the exclusive upper bound of a valid house edge
const MaxHouseEdge = 0.5

// Stake is what a player puts on a single wager
type Stake struct {
	Bet  int64
	Edge float64
	Mode entities.PayoutMode
}

// Validate checks the stake itself; guild limits are enforced elsewhere
func (s Stake) Validate() error {
	if s.Bet <= 0 {
		return apperr.InvalidParameter("bet must be positive")
	}
	if s.Edge < 0 || s.Edge >= MaxHouseEdge {
		return apperr.InvalidParameter("house edge %.4f out of range", s.Edge)
	}
	if !s.Mode.Valid() {
		return apperr.InvalidParameter("unknown payout mode %q", s.Mode)
	}
	return nil
}

// WinDelta is the balance change for a win at the given fair multiplier:
// round_half_up(bet × (multiplier − edge)), minus the stake in net mode.
func WinDelta(s Stake, multiplier float64) int64 {
	gross := roundHalfUp(decimal.NewFromInt(s.Bet).Mul(
		decimal.NewFromFloat(multiplier).Sub(decimal.NewFromFloat(s.Edge))))
	if s.Mode == entities.PayoutModeNet {
		return gross - s.Bet
	}
	return gross
}

// CrashProfit is the credit for cashing out at multiplier m: bet × (m − 1 − edge),
// never negative. It is the same in both payout modes.
func CrashProfit(s Stake, m float64) int64 {
	profit := roundHalfUp(decimal.NewFromInt(s.Bet).Mul(
		decimal.NewFromFloat(m).Sub(decimal.NewFromInt(1)).Sub(decimal.NewFromFloat(s.Edge))))
	if profit < 0 {
		return 0
	}
	return profit
}

func roundHalfUp(d decimal.Decimal) int64 {
	// Round is half away from zero, which is half up for the non-negative values it sees here
	return d.Round(0).IntPart()
}
