package entities

import "time"

// Account is a user's balance inside one guild. Accounts are created lazily
// by the first mutation and never deleted.
type Account struct {
	GuildID   int64     `db:"guild_id"`
	UserID    int64     `db:"user_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// LeaderboardEntry is one ranked row of a guild leaderboard
type LeaderboardEntry struct {
	Rank    int
	UserID  int64
	Balance int64
}
