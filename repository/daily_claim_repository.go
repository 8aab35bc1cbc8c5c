package repository

import (
	"context"
	"errors"
	"time"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

// dailyClaimRepository implements the DailyClaimRepository interface
type dailyClaimRepository struct {
	q       Queryable
	guildID int64
}

func newDailyClaimRepository(q Queryable, guildID int64) *dailyClaimRepository {
	return &dailyClaimRepository{q: q, guildID: guildID}
}

func (r *dailyClaimRepository) Get(ctx context.Context, userID int64) (*entities.DailyClaim, error) {
	claim := entities.DailyClaim{GuildID: r.guildID, UserID: userID}
	err := r.q.QueryRow(ctx,
		`SELECT last_claim_at FROM daily_claims WHERE guild_id = $1 AND user_id = $2`,
		r.guildID, userID,
	).Scan(&claim.LastClaimAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence("get daily claim", err)
	}
	return &claim, nil
}

func (r *dailyClaimRepository) Record(ctx context.Context, userID int64, at time.Time) error {
	query := `
		INSERT INTO daily_claims (guild_id, user_id, last_claim_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET last_claim_at = EXCLUDED.last_claim_at
	`
	if _, err := r.q.Exec(ctx, query, r.guildID, userID, at); err != nil {
		return apperr.Persistence("record daily claim", err)
	}
	return nil
}
