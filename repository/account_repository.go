package repository

import (
	"context"
	"errors"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

// accountRepository implements the AccountRepository interface
type accountRepository struct {
	q       Queryable
	guildID int64
}

func newAccountRepository(q Queryable, guildID int64) *accountRepository {
	return &accountRepository{q: q, guildID: guildID}
}

// GetBalance returns the stored balance, or 0 for an account that does not exist yet
func (r *accountRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.q.QueryRow(ctx,
		`SELECT balance FROM accounts WHERE guild_id = $1 AND user_id = $2`,
		r.guildID, userID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.Persistence("get balance", err)
	}
	return balance, nil
}

// ApplyDelta adds delta in a single statement, so concurrent callers never lose updates
func (r *accountRepository) ApplyDelta(ctx context.Context, userID int64, delta int64) (int64, error) {
	query := `
		INSERT INTO accounts (guild_id, user_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET balance = accounts.balance + EXCLUDED.balance, updated_at = NOW()
		RETURNING balance
	`
	var balance int64
	if err := r.q.QueryRow(ctx, query, r.guildID, userID, delta).Scan(&balance); err != nil {
		return 0, apperr.Persistence("apply balance delta", err)
	}
	return balance, nil
}

// LockBalance creates the account if needed; the upsert leaves the row locked
// until the surrounding transaction ends
func (r *accountRepository) LockBalance(ctx context.Context, userID int64) (int64, error) {
	query := `
		INSERT INTO accounts (guild_id, user_id, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET updated_at = accounts.updated_at
		RETURNING balance
	`
	var balance int64
	if err := r.q.QueryRow(ctx, query, r.guildID, userID).Scan(&balance); err != nil {
		return 0, apperr.Persistence("lock account", err)
	}
	return balance, nil
}

func (r *accountRepository) TopBalances(ctx context.Context, limit int) ([]*entities.Account, error) {
	query := `
		SELECT guild_id, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE guild_id = $1
		ORDER BY balance DESC, user_id
		LIMIT $2
	`
	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, apperr.Persistence("list top balances", err)
	}
	accounts, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entities.Account])
	if err != nil {
		return nil, apperr.Persistence("scan top balances", err)
	}
	return accounts, nil
}

// ResetAll zeroes the guild and hands back the balances it replaced
func (r *accountRepository) ResetAll(ctx context.Context) ([]*entities.Account, error) {
	query := `
		WITH old AS (
			SELECT user_id, balance FROM accounts WHERE guild_id = $1 FOR UPDATE
		)
		UPDATE accounts a
		SET balance = 0, updated_at = NOW()
		FROM old
		WHERE a.guild_id = $1 AND a.user_id = old.user_id
		RETURNING a.guild_id, a.user_id, old.balance AS balance, a.created_at, a.updated_at
	`
	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, apperr.Persistence("reset balances", err)
	}
	accounts, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entities.Account])
	if err != nil {
		return nil, apperr.Persistence("scan reset balances", err)
	}
	return accounts, nil
}
