package entities

import "time"

// MaxHistoryEntries is how many history rows are kept per account
const MaxHistoryEntries = 100

// HistoryEntry is one recorded balance mutation
type HistoryEntry struct {
	ID           int64           `db:"id"`
	GuildID      int64           `db:"guild_id"`
	UserID       int64           `db:"user_id"`
	Game         TransactionType `db:"game"`
	Bet          int64           `db:"bet"`
	Delta        int64           `db:"delta"`
	BalanceAfter int64           `db:"balance_after"`
	Metadata     map[string]any  `db:"metadata"`
	CreatedAt    time.Time       `db:"created_at"`
}

// BalanceBefore derives the balance prior to the mutation
func (h *HistoryEntry) BalanceBefore() int64 {
	return h.BalanceAfter - h.Delta
}

// LedgerChange describes why a balance moved
type LedgerChange struct {
	Type     TransactionType
	Bet      int64
	Metadata map[string]any
}
