package games

import (
	"slices"
	"strconv"
	"strings"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
)

// Fair multipliers
const (
	EvenMoneyMultiplier      = 2.0
	SlotsTripleMultiplier    = 9.0
	SlotsPairMultiplier      = 2.0
	RouletteNumberMultiplier = 35.0
)

// SlotSymbols are the reel faces, equally likely
var SlotSymbols = []string{"🍒", "🍋", "🍇", "🔔", "⭐"}

// GuessRanges are the allowed sizes of a guess game
var GuessRanges = []int{3, 5, 10}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// RouletteColor returns "green", "red" or "black" for a pocket
func RouletteColor(n int) string {
	switch {
	case n == 0:
		return "green"
	case redNumbers[n]:
		return "red"
	default:
		return "black"
	}
}

// InstantBet describes a single-shot wager
type InstantBet struct {
	Game   entities.TransactionType
	Choice string // side, high/low, colour or pocket number, or guessed number
	Range  int    // guess only
}

// Play evaluates an instant wager
func Play(s Stake, bet InstantBet, rng RNG) (Outcome, error) {
	if err := s.Validate(); err != nil {
		return Outcome{}, err
	}
	choice := strings.ToLower(strings.TrimSpace(bet.Choice))

	switch bet.Game {
	case entities.TransactionTypeCoinflip:
		return coinflip(s, choice, rng)
	case entities.TransactionTypeDice:
		return dice(s, choice, rng)
	case entities.TransactionTypeSlots:
		return slots(s, rng), nil
	case entities.TransactionTypeRoulette:
		return roulette(s, choice, rng)
	case entities.TransactionTypeGuess:
		return guess(s, bet.Range, choice, rng)
	default:
		return Outcome{}, apperr.InvalidParameter("%q is not an instant game", bet.Game)
	}
}

// CoinflipDetail records a coin toss
type CoinflipDetail struct {
	Pick   string
	Landed string
}

func (d CoinflipDetail) metadata() map[string]any {
	return map[string]any{"pick": d.Pick, "landed": d.Landed}
}

func coinflip(s Stake, side string, rng RNG) (Outcome, error) {
	if side != "heads" && side != "tails" {
		return Outcome{}, apperr.InvalidParameter("choose heads or tails")
	}
	landed := "heads"
	if rng.IntN(2) == 1 {
		landed = "tails"
	}
	detail := CoinflipDetail{Pick: side, Landed: landed}
	if landed == side {
		return win(entities.TransactionTypeCoinflip, s, EvenMoneyMultiplier, detail), nil
	}
	return loss(entities.TransactionTypeCoinflip, s.Bet, detail), nil
}

// DiceDetail records a 2d6 roll
type DiceDetail struct {
	Pick       string
	Die1, Die2 int
}

// Total returns the sum of both dice
func (d DiceDetail) Total() int {
	return d.Die1 + d.Die2
}

func (d DiceDetail) metadata() map[string]any {
	return map[string]any{"pick": d.Pick, "dice": []int{d.Die1, d.Die2}}
}

func dice(s Stake, pick string, rng RNG) (Outcome, error) {
	if pick != "high" && pick != "low" {
		return Outcome{}, apperr.InvalidParameter("choose high or low")
	}
	detail := DiceDetail{Pick: pick, Die1: rng.IntN(6) + 1, Die2: rng.IntN(6) + 1}
	total := detail.Total()
	// Seven loses both ways
	if (pick == "high" && total >= 8) || (pick == "low" && total <= 6) {
		return win(entities.TransactionTypeDice, s, EvenMoneyMultiplier, detail), nil
	}
	return loss(entities.TransactionTypeDice, s.Bet, detail), nil
}

// SlotsDetail records the three reels
type SlotsDetail struct {
	Reels [3]string
}

func (d SlotsDetail) metadata() map[string]any {
	return map[string]any{"reels": d.Reels[:]}
}

func slots(s Stake, rng RNG) Outcome {
	var detail SlotsDetail
	for i := range detail.Reels {
		detail.Reels[i] = SlotSymbols[rng.IntN(len(SlotSymbols))]
	}
	r := detail.Reels
	switch {
	case r[0] == r[1] && r[1] == r[2]:
		return win(entities.TransactionTypeSlots, s, SlotsTripleMultiplier, detail)
	case r[0] == r[1] || r[1] == r[2]:
		return win(entities.TransactionTypeSlots, s, SlotsPairMultiplier, detail)
	default:
		return loss(entities.TransactionTypeSlots, s.Bet, detail)
	}
}

// RouletteDetail records the winning pocket
type RouletteDetail struct {
	Pick   string
	Number int
	Color  string
}

func (d RouletteDetail) metadata() map[string]any {
	return map[string]any{"pick": d.Pick, "number": d.Number, "color": d.Color}
}

func roulette(s Stake, pick string, rng RNG) (Outcome, error) {
	target := -1
	switch pick {
	case "red", "black":
	case "green":
		target = 0
	default:
		n, err := strconv.Atoi(pick)
		if err != nil || n < 0 || n > 36 {
			return Outcome{}, apperr.InvalidParameter("pick red, black, green or a number 0-36")
		}
		target = n
	}

	n := rng.IntN(37)
	detail := RouletteDetail{Pick: pick, Number: n, Color: RouletteColor(n)}

	if target >= 0 {
		if n == target {
			return win(entities.TransactionTypeRoulette, s, RouletteNumberMultiplier, detail), nil
		}
		return loss(entities.TransactionTypeRoulette, s.Bet, detail), nil
	}
	if detail.Color == pick {
		return win(entities.TransactionTypeRoulette, s, EvenMoneyMultiplier, detail), nil
	}
	return loss(entities.TransactionTypeRoulette, s.Bet, detail), nil
}

// GuessDetail records a number guess
type GuessDetail struct {
	Range int
	Pick  int
	Drawn int
}

func (d GuessDetail) metadata() map[string]any {
	return map[string]any{"range": d.Range, "pick": d.Pick, "drawn": d.Drawn}
}

func guess(s Stake, n int, pick string, rng RNG) (Outcome, error) {
	if !slices.Contains(GuessRanges, n) {
		return Outcome{}, apperr.InvalidParameter("range must be one of 3, 5 or 10")
	}
	p, err := strconv.Atoi(pick)
	if err != nil || p < 1 || p > n {
		return Outcome{}, apperr.InvalidParameter("pick a number from 1 to %d", n)
	}
	detail := GuessDetail{Range: n, Pick: p, Drawn: rng.IntN(n) + 1}
	if detail.Drawn == p {
		return win(entities.TransactionTypeGuess, s, float64(n), detail), nil
	}
	return loss(entities.TransactionTypeGuess, s.Bet, detail), nil
}
