package games

import (
	"testing"

	"guildledger/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simulationRounds = 200000

// expectedReturn is Σdelta / Σbet in the limit, given the win probability,
// the fair multiplier and the probability of losing the stake.
func expectedReturn(mode entities.PayoutMode, edge, pWin, multiplier, pLoss float64) float64 {
	winDelta := multiplier - edge
	if mode == entities.PayoutModeNet {
		winDelta -= 1
	}
	return pWin*winDelta - pLoss
}

type instantCase struct {
	name       string
	bet        InstantBet
	pWin       float64
	multiplier float64
	pLoss      float64
	tolerance  float64
}

// slots wins are split between triples and pairs, so it is simulated separately
var instantCases = []instantCase{
	{"coinflip", InstantBet{Game: entities.TransactionTypeCoinflip, Choice: "heads"}, 0.5, 2, 0.5, 0.015},
	{"dice", InstantBet{Game: entities.TransactionTypeDice, Choice: "high"}, 15.0 / 36, 2, 21.0 / 36, 0.015},
	{"roulette colour", InstantBet{Game: entities.TransactionTypeRoulette, Choice: "red"}, 18.0 / 37, 2, 19.0 / 37, 0.015},
	{"roulette number", InstantBet{Game: entities.TransactionTypeRoulette, Choice: "17"}, 1.0 / 37, 35, 36.0 / 37, 0.06},
	{"guess three", InstantBet{Game: entities.TransactionTypeGuess, Range: 3, Choice: "2"}, 1.0 / 3, 3, 2.0 / 3, 0.02},
	{"guess ten", InstantBet{Game: entities.TransactionTypeGuess, Range: 10, Choice: "7"}, 0.1, 10, 0.9, 0.03},
}

func simulate(t *testing.T, s Stake, rounds int, playOnce func(rng RNG) Outcome) float64 {
	t.Helper()
	rng := NewSeededRNG(20260101)
	var totalDelta, totalBet int64
	for range rounds {
		o := playOnce(rng)
		totalDelta += o.Delta
		totalBet += o.Bet
	}
	return float64(totalDelta) / float64(totalBet)
}

func TestInstantGames_ConvergeToExpectedReturn(t *testing.T) {
	if testing.Short() {
		t.Skip("simulation")
	}

	for _, mode := range []entities.PayoutMode{entities.PayoutModeGross, entities.PayoutModeNet} {
		s := Stake{Bet: 100, Edge: 0.02, Mode: mode}
		for _, tc := range instantCases {
			t.Run(string(mode)+"/"+tc.name, func(t *testing.T) {
				got := simulate(t, s, simulationRounds, func(rng RNG) Outcome {
					o, err := Play(s, tc.bet, rng)
					require.NoError(t, err)
					return o
				})
				want := expectedReturn(mode, s.Edge, tc.pWin, tc.multiplier, tc.pLoss)
				assert.InDelta(t, want, got, tc.tolerance)
				if mode == entities.PayoutModeNet {
					assert.Negative(t, want)
				}
			})
		}

		t.Run(string(mode)+"/slots", func(t *testing.T) {
			got := simulate(t, s, simulationRounds, func(rng RNG) Outcome {
				o, err := Play(s, InstantBet{Game: entities.TransactionTypeSlots}, rng)
				require.NoError(t, err)
				return o
			})
			want := expectedReturn(mode, s.Edge, 1.0/25, 9, 0) +
				expectedReturn(mode, s.Edge, 8.0/25, 2, 16.0/25)
			assert.InDelta(t, want, got, 0.03)
			if mode == entities.PayoutModeNet {
				assert.Negative(t, want)
			}
		})

		t.Run(string(mode)+"/hilo", func(t *testing.T) {
			// Guessing blind: ties push with probability 3/51, the rest splits evenly
			got := simulate(t, s, simulationRounds/4, func(rng RNG) Outcome {
				h, err := NewHiLo(s, rng)
				require.NoError(t, err)
				action := ActionHigher
				if rng.IntN(2) == 1 {
					action = ActionLower
				}
				require.NoError(t, h.Act(action))
				o, _ := h.Outcome()
				return o
			})
			want := expectedReturn(mode, s.Edge, 24.0/51, 2, 24.0/51)
			assert.InDelta(t, want, got, 0.03)
			if mode == entities.PayoutModeNet {
				assert.Negative(t, want)
			}
		})
	}
}

func TestRoundGames_HouseKeepsEdgeInNetMode(t *testing.T) {
	if testing.Short() {
		t.Skip("simulation")
	}
	s := Stake{Bet: 100, Edge: 0.02, Mode: entities.PayoutModeNet}

	t.Run("blackjack drawing to seventeen", func(t *testing.T) {
		got := simulate(t, s, simulationRounds/4, func(rng RNG) Outcome {
			b, err := NewBlackjack(s, rng)
			require.NoError(t, err)
			for b.Phase() == PhasePlayerTurn {
				action := ActionStand
				if b.Player.Value() < DealerStandsOn {
					action = ActionHit
				}
				require.NoError(t, b.Act(action))
			}
			o, ok := b.Outcome()
			require.True(t, ok)
			return o
		})
		assert.Negative(t, got)
	})

	for _, target := range []float64{CrashMinCashOut, 1.5, 2.0} {
		t.Run("crash cashing out", func(t *testing.T) {
			got := simulate(t, s, simulationRounds/4, func(rng RNG) Outcome {
				cr, err := NewCrash(s, rng)
				require.NoError(t, err)
				for cr.Phase() == PhaseRising {
					if cr.Multiplier() >= target {
						require.NoError(t, cr.Act(ActionCashOut))
						break
					}
					require.NoError(t, cr.Tick(rng))
				}
				o, ok := cr.Outcome()
				require.True(t, ok)
				return o
			})
			assert.Negative(t, got)
		})
	}
}
