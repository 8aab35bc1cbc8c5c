package entities

// StatsRecord aggregates a user's wager results in one guild
type StatsRecord struct {
	GuildID    int64 `db:"guild_id"`
	UserID     int64 `db:"user_id"`
	Bets       int64 `db:"bets"`
	Won        int64 `db:"won"`
	Lost       int64 `db:"lost"`
	BiggestWin int64 `db:"biggest_win"`
}

// Net returns total winnings minus total losses
func (s *StatsRecord) Net() int64 {
	return s.Won - s.Lost
}

// Apply folds a single wager delta into the record
func (s *StatsRecord) Apply(delta int64) {
	s.Bets++
	switch {
	case delta > 0:
		s.Won += delta
		if delta > s.BiggestWin {
			s.BiggestWin = delta
		}
	case delta < 0:
		s.Lost += -delta
	}
}
