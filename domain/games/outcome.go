package games

import "guildledger/domain/entities"

// Result classifies a settled wager
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultPush Result = "push"
)

// Outcome is a fully evaluated wager, ready to be applied to the ledger
type Outcome struct {
	Game   entities.TransactionType
	Bet    int64
	Delta  int64
	Result Result
	// Detail holds the game-specific draw (dice faces, reels, cards, ...)
	Detail any
}

func win(game entities.TransactionType, s Stake, multiplier float64, detail any) Outcome {
	return Outcome{Game: game, Bet: s.Bet, Delta: WinDelta(s, multiplier), Result: ResultWin, Detail: detail}
}

func loss(game entities.TransactionType, bet int64, detail any) Outcome {
	return Outcome{Game: game, Bet: bet, Delta: -bet, Result: ResultLoss, Detail: detail}
}

func push(game entities.TransactionType, bet int64, detail any) Outcome {
	return Outcome{Game: game, Bet: bet, Result: ResultPush, Detail: detail}
}

// Metadata renders the outcome for the history log
func (o Outcome) Metadata() map[string]any {
	md := map[string]any{"result": string(o.Result)}
	if d, ok := o.Detail.(interface{ metadata() map[string]any }); ok {
		for k, v := range d.metadata() {
			md[k] = v
		}
	}
	return md
}
