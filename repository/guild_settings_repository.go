package repository

import (
	"context"
	"errors"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

// guildSettingsRepository implements the GuildSettingsRepository interface
type guildSettingsRepository struct {
	q       Queryable
	guildID int64
}

func newGuildSettingsRepository(q Queryable, guildID int64) *guildSettingsRepository {
	return &guildSettingsRepository{q: q, guildID: guildID}
}

// Get returns the guild's override row, or nil when it never changed a setting
func (r *guildSettingsRepository) Get(ctx context.Context) (*entities.GuildSettings, error) {
	query := `
		SELECT guild_id, min_bet, max_bet, house_edge, daily_amount, currency,
		       gambling_enabled, gambling_channel_id, banker_role_id, payout_mode
		FROM guild_settings
		WHERE guild_id = $1
	`
	var gs entities.GuildSettings
	var payoutMode *string
	err := r.q.QueryRow(ctx, query, r.guildID).Scan(
		&gs.GuildID,
		&gs.MinBet,
		&gs.MaxBet,
		&gs.HouseEdge,
		&gs.DailyAmount,
		&gs.Currency,
		&gs.GamblingEnabled,
		&gs.GamblingChannelID,
		&gs.BankerRoleID,
		&payoutMode,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence("get guild settings", err)
	}
	if payoutMode != nil {
		mode := entities.PayoutMode(*payoutMode)
		gs.PayoutMode = &mode
	}
	return &gs, nil
}

// Upsert replaces the whole override row
func (r *guildSettingsRepository) Upsert(ctx context.Context, gs *entities.GuildSettings) error {
	query := `
		INSERT INTO guild_settings (
			guild_id, min_bet, max_bet, house_edge, daily_amount, currency,
			gambling_enabled, gambling_channel_id, banker_role_id, payout_mode
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (guild_id) DO UPDATE SET
			min_bet = EXCLUDED.min_bet,
			max_bet = EXCLUDED.max_bet,
			house_edge = EXCLUDED.house_edge,
			daily_amount = EXCLUDED.daily_amount,
			currency = EXCLUDED.currency,
			gambling_enabled = EXCLUDED.gambling_enabled,
			gambling_channel_id = EXCLUDED.gambling_channel_id,
			banker_role_id = EXCLUDED.banker_role_id,
			payout_mode = EXCLUDED.payout_mode,
			updated_at = NOW()
	`
	var payoutMode *string
	if gs.PayoutMode != nil {
		mode := string(*gs.PayoutMode)
		payoutMode = &mode
	}
	_, err := r.q.Exec(ctx, query,
		r.guildID,
		gs.MinBet,
		gs.MaxBet,
		gs.HouseEdge,
		gs.DailyAmount,
		gs.Currency,
		gs.GamblingEnabled,
		gs.GamblingChannelID,
		gs.BankerRoleID,
		payoutMode,
	)
	if err != nil {
		return apperr.Persistence("upsert guild settings", err)
	}
	return nil
}
