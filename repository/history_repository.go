package repository

import (
	"context"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
)

// historyRepository implements the HistoryRepository interface
type historyRepository struct {
	q       Queryable
	guildID int64
}

func newHistoryRepository(q Queryable, guildID int64) *historyRepository {
	return &historyRepository{q: q, guildID: guildID}
}

// Append inserts the entry and trims the user's log to the newest MaxHistoryEntries
func (r *historyRepository) Append(ctx context.Context, entry *entities.HistoryEntry) error {
	insert := `
		INSERT INTO ledger_history (guild_id, user_id, game, bet, delta, balance_after, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, insert,
		r.guildID,
		entry.UserID,
		string(entry.Game),
		entry.Bet,
		entry.Delta,
		entry.BalanceAfter,
		entry.Metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return apperr.Persistence("append history", err)
	}
	entry.GuildID = r.guildID

	trim := `
		DELETE FROM ledger_history
		WHERE guild_id = $1 AND user_id = $2 AND id NOT IN (
			SELECT id FROM ledger_history
			WHERE guild_id = $1 AND user_id = $2
			ORDER BY id DESC
			LIMIT $3
		)
	`
	if _, err := r.q.Exec(ctx, trim, r.guildID, entry.UserID, entities.MaxHistoryEntries); err != nil {
		return apperr.Persistence("trim history", err)
	}
	return nil
}

func (r *historyRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.HistoryEntry, error) {
	query := `
		SELECT id, guild_id, user_id, game, bet, delta, balance_after, metadata, created_at
		FROM ledger_history
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY id DESC
		LIMIT $3
	`
	rows, err := r.q.Query(ctx, query, r.guildID, userID, limit)
	if err != nil {
		return nil, apperr.Persistence("list history", err)
	}
	defer rows.Close()

	var entries []*entities.HistoryEntry
	for rows.Next() {
		var entry entities.HistoryEntry
		var game string
		if err := rows.Scan(
			&entry.ID,
			&entry.GuildID,
			&entry.UserID,
			&game,
			&entry.Bet,
			&entry.Delta,
			&entry.BalanceAfter,
			&entry.Metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, apperr.Persistence("scan history", err)
		}
		entry.Game = entities.TransactionType(game)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterate history", err)
	}
	return entries, nil
}
