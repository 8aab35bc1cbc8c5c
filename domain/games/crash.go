package games

import (
	"math"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
)

// Crash tuning
const (
	CrashMinBust       = 1.05
	CrashBustSpan      = 2.95
	CrashMinCashOut    = 1.25
	CrashGrowthMin     = 1.04
	CrashGrowthSpan    = 0.08
	crashStartingLevel = 1.0
)

// CrashDetail is the final state of a crash round
type CrashDetail struct {
	Multiplier float64
	BustPoint  float64
	CashedOut  bool
}

func (d CrashDetail) metadata() map[string]any {
	return map[string]any{
		"multiplier": d.Multiplier,
		"bust_point": d.BustPoint,
		"cashed_out": d.CashedOut,
	}
}

// Crash is a rising multiplier the player must cash out before it busts
type Crash struct {
	stake      Stake
	bustPoint  float64
	multiplier float64
	phase      Phase
	outcome    *Outcome
}

// NewCrash samples the bust point: 1.05 + u³ × 2.95
func NewCrash(s Stake, rng RNG) (*Crash, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	u := rng.Float64()
	return &Crash{
		stake:      s,
		bustPoint:  CrashMinBust + u*u*u*CrashBustSpan,
		multiplier: crashStartingLevel,
		phase:      PhaseRising,
	}, nil
}

func (c *Crash) Game() entities.TransactionType { return entities.TransactionTypeCrash }

func (c *Crash) Phase() Phase { return c.phase }

func (c *Crash) Exposure() int64 { return c.stake.Bet }

// Multiplier is the current level, truncated to two decimals
func (c *Crash) Multiplier() float64 { return c.multiplier }

// BustPoint is only meant to be revealed once the round is over
func (c *Crash) BustPoint() float64 { return c.bustPoint }

// Tick grows the multiplier by a factor in [1.04, 1.12) and busts the round
// once it reaches the bust point.
func (c *Crash) Tick(rng RNG) error {
	if c.phase.IsTerminal() {
		return apperr.ErrRoundFinished
	}
	growth := CrashGrowthMin + rng.Float64()*CrashGrowthSpan
	c.multiplier = math.Floor(c.multiplier*growth*100) / 100
	if c.multiplier >= c.bustPoint {
		c.multiplier = math.Floor(c.bustPoint*100) / 100
		c.bust()
	}
	return nil
}

func (c *Crash) Act(action Action) error {
	if c.phase.IsTerminal() {
		return apperr.ErrRoundFinished
	}
	if action != ActionCashOut {
		return unsupported(c.Game(), action)
	}
	if c.multiplier < CrashMinCashOut {
		return apperr.InvalidParameter("cash out unlocks at %.2fx", CrashMinCashOut)
	}

	detail := CrashDetail{Multiplier: c.multiplier, BustPoint: c.bustPoint, CashedOut: true}
	o := Outcome{Game: c.Game(), Bet: c.stake.Bet, Delta: CrashProfit(c.stake, c.multiplier), Detail: detail}
	o.Result = ResultWin
	if o.Delta == 0 {
		o.Result = ResultPush
	}
	c.outcome = &o
	c.phase = PhaseCashed
	return nil
}

func (c *Crash) Expire() {
	if c.phase.IsTerminal() {
		return
	}
	c.bust()
}

func (c *Crash) bust() {
	o := loss(c.Game(), c.stake.Bet, CrashDetail{Multiplier: c.multiplier, BustPoint: c.bustPoint})
	c.outcome = &o
	c.phase = PhaseBusted
}

func (c *Crash) Outcome() (Outcome, bool) {
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}
