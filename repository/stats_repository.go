package repository

import (
	"context"
	"errors"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

// statsRepository implements the StatsRepository interface
type statsRepository struct {
	q       Queryable
	guildID int64
}

func newStatsRepository(q Queryable, guildID int64) *statsRepository {
	return &statsRepository{q: q, guildID: guildID}
}

func (r *statsRepository) Get(ctx context.Context, userID int64) (*entities.StatsRecord, error) {
	query := `
		SELECT guild_id, user_id, bets, won, lost, biggest_win
		FROM user_stats
		WHERE guild_id = $1 AND user_id = $2
	`
	rows, err := r.q.Query(ctx, query, r.guildID, userID)
	if err != nil {
		return nil, apperr.Persistence("get stats", err)
	}
	stats, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[entities.StatsRecord])
	if errors.Is(err, pgx.ErrNoRows) {
		return &entities.StatsRecord{GuildID: r.guildID, UserID: userID}, nil
	}
	if err != nil {
		return nil, apperr.Persistence("scan stats", err)
	}
	return stats, nil
}

// RecordWager folds one wager into the counters with a single upsert
func (r *statsRepository) RecordWager(ctx context.Context, userID int64, delta int64) error {
	query := `
		INSERT INTO user_stats (guild_id, user_id, bets, won, lost, biggest_win)
		VALUES ($1, $2, 1, GREATEST($3::bigint, 0), GREATEST(-$3::bigint, 0), GREATEST($3::bigint, 0))
		ON CONFLICT (guild_id, user_id) DO UPDATE SET
			bets = user_stats.bets + 1,
			won = user_stats.won + EXCLUDED.won,
			lost = user_stats.lost + EXCLUDED.lost,
			biggest_win = GREATEST(user_stats.biggest_win, EXCLUDED.biggest_win)
	`
	if _, err := r.q.Exec(ctx, query, r.guildID, userID, delta); err != nil {
		return apperr.Persistence("record wager stats", err)
	}
	return nil
}
