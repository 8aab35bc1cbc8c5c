package games

import (
	"testing"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stake100 = Stake{Bet: 100, Edge: 0.02, Mode: entities.PayoutModeGross}

func play(t *testing.T, bet InstantBet, ints ...int) Outcome {
	t.Helper()
	o, err := Play(stake100, bet, NewScriptedRNG(ints))
	require.NoError(t, err)
	return o
}

func TestCoinflip(t *testing.T) {
	o := play(t, InstantBet{Game: entities.TransactionTypeCoinflip, Choice: "Heads"}, 0)
	assert.Equal(t, ResultWin, o.Result)
	assert.Equal(t, int64(198), o.Delta)
	assert.Equal(t, CoinflipDetail{Pick: "heads", Landed: "heads"}, o.Detail)

	o = play(t, InstantBet{Game: entities.TransactionTypeCoinflip, Choice: "heads"}, 1)
	assert.Equal(t, ResultLoss, o.Result)
	assert.Equal(t, int64(-100), o.Delta)

	_, err := Play(stake100, InstantBet{Game: entities.TransactionTypeCoinflip, Choice: "edge"}, NewScriptedRNG(nil))
	assert.Equal(t, apperr.ReasonInvalidParameter, apperr.ReasonOf(err))
}

func TestDice(t *testing.T) {
	tests := []struct {
		name   string
		pick   string
		rolls  []int // zero-based faces
		result Result
	}{
		{"seven loses high", "high", []int{2, 3}, ResultLoss},
		{"seven loses low", "low", []int{2, 3}, ResultLoss},
		{"nine wins high", "high", []int{3, 4}, ResultWin},
		{"eight wins high", "high", []int{3, 3}, ResultWin},
		{"six wins low", "low", []int{2, 2}, ResultWin},
		{"twelve loses low", "low", []int{5, 5}, ResultLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := play(t, InstantBet{Game: entities.TransactionTypeDice, Choice: tt.pick}, tt.rolls...)
			assert.Equal(t, tt.result, o.Result)
		})
	}
}

func TestSlots(t *testing.T) {
	o := play(t, InstantBet{Game: entities.TransactionTypeSlots}, 0, 0, 0)
	assert.Equal(t, int64(898), o.Delta)
	assert.Equal(t, [3]string{"🍒", "🍒", "🍒"}, o.Detail.(SlotsDetail).Reels)

	o = play(t, InstantBet{Game: entities.TransactionTypeSlots}, 1, 1, 2)
	assert.Equal(t, int64(198), o.Delta)

	o = play(t, InstantBet{Game: entities.TransactionTypeSlots}, 0, 3, 3)
	assert.Equal(t, int64(198), o.Delta)

	// Matching ends without a middle match is no win
	o = play(t, InstantBet{Game: entities.TransactionTypeSlots}, 0, 1, 0)
	assert.Equal(t, ResultLoss, o.Result)
	assert.Equal(t, int64(-100), o.Delta)
}

func TestRoulette(t *testing.T) {
	o := play(t, InstantBet{Game: entities.TransactionTypeRoulette, Choice: "red"}, 1)
	assert.Equal(t, int64(198), o.Delta)

	o = play(t, InstantBet{Game: entities.TransactionTypeRoulette, Choice: "black"}, 1)
	assert.Equal(t, ResultLoss, o.Result)

	o = play(t, InstantBet{Game: entities.TransactionTypeRoulette, Choice: "17"}, 17)
	assert.Equal(t, int64(3498), o.Delta)

	o = play(t, InstantBet{Game: entities.TransactionTypeRoulette, Choice: "green"}, 0)
	assert.Equal(t, int64(3498), o.Delta)

	o = play(t, InstantBet{Game: entities.TransactionTypeRoulette, Choice: "black"}, 0)
	assert.Equal(t, ResultLoss, o.Result)
	assert.Equal(t, "green", o.Detail.(RouletteDetail).Color)

	_, err := Play(stake100, InstantBet{Game: entities.TransactionTypeRoulette, Choice: "37"}, NewScriptedRNG(nil))
	assert.Error(t, err)
}

func TestRouletteColor(t *testing.T) {
	reds := 0
	for n := 1; n <= 36; n++ {
		if RouletteColor(n) == "red" {
			reds++
		}
	}
	assert.Equal(t, 18, reds)
	assert.Equal(t, "black", RouletteColor(2))
}

func TestGuess(t *testing.T) {
	o := play(t, InstantBet{Game: entities.TransactionTypeGuess, Range: 5, Choice: "3"}, 2)
	assert.Equal(t, int64(498), o.Delta)

	o = play(t, InstantBet{Game: entities.TransactionTypeGuess, Range: 10, Choice: "3"}, 6)
	assert.Equal(t, ResultLoss, o.Result)

	_, err := Play(stake100, InstantBet{Game: entities.TransactionTypeGuess, Range: 4, Choice: "1"}, NewScriptedRNG(nil))
	assert.Error(t, err)
	_, err = Play(stake100, InstantBet{Game: entities.TransactionTypeGuess, Range: 3, Choice: "4"}, NewScriptedRNG(nil))
	assert.Error(t, err)
}

func TestPlay_RejectsRoundGames(t *testing.T) {
	_, err := Play(stake100, InstantBet{Game: entities.TransactionTypeBlackjack}, NewScriptedRNG(nil))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestOutcome_Metadata(t *testing.T) {
	o := play(t, InstantBet{Game: entities.TransactionTypeDice, Choice: "high"}, 3, 4)
	md := o.Metadata()
	assert.Equal(t, "win", md["result"])
	assert.Equal(t, []int{4, 5}, md["dice"])
}
