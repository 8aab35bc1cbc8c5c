package entities

// TransactionType names the kind of balance mutation recorded in history
type TransactionType string

const (
	// Wager games
	TransactionTypeCoinflip  TransactionType = "coinflip"
	TransactionTypeDice      TransactionType = "dice"
	TransactionTypeSlots     TransactionType = "slots"
	TransactionTypeRoulette  TransactionType = "roulette"
	TransactionTypeBlackjack TransactionType = "blackjack"
	TransactionTypeCrash     TransactionType = "crash"
	TransactionTypeHiLo      TransactionType = "hilo"
	TransactionTypeGuess     TransactionType = "guess"

	// Economy transactions
	TransactionTypeDaily  TransactionType = "daily"
	TransactionTypeGive   TransactionType = "give"
	TransactionTypeGrant  TransactionType = "grant"
	TransactionTypeRedeem TransactionType = "redeem"
	TransactionTypeReset  TransactionType = "reset"
)

// IsWager returns true for game outcomes, the only mutations that touch stats
func (tt TransactionType) IsWager() bool {
	switch tt {
	case TransactionTypeCoinflip, TransactionTypeDice, TransactionTypeSlots, TransactionTypeRoulette,
		TransactionTypeBlackjack, TransactionTypeCrash, TransactionTypeHiLo, TransactionTypeGuess:
		return true
	}
	return false
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}
