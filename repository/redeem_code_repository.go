package repository

import (
	"context"
	"errors"
	"time"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const redeemCodeColumns = `guild_id, code, amount, max_uses, uses, expires_at, note, disabled, created_by, created_at`

// redeemCodeRepository implements the RedeemCodeRepository interface
type redeemCodeRepository struct {
	q       Queryable
	guildID int64
}

func newRedeemCodeRepository(q Queryable, guildID int64) *redeemCodeRepository {
	return &redeemCodeRepository{q: q, guildID: guildID}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Create inserts a new code; a taken code is reported as a validation error
func (r *redeemCodeRepository) Create(ctx context.Context, code *entities.RedeemCode) error {
	query := `
		INSERT INTO redeem_codes (guild_id, code, amount, max_uses, uses, expires_at, note, disabled, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		code.Code,
		code.Amount,
		code.MaxUses,
		code.Uses,
		code.ExpiresAt,
		code.Note,
		code.Disabled,
		code.CreatedBy,
	).Scan(&code.CreatedAt)
	if isUniqueViolation(err) {
		return apperr.Validation(apperr.ReasonCodeAlreadyExists, "code %s already exists", code.Code)
	}
	if err != nil {
		return apperr.Persistence("create redeem code", err)
	}
	code.GuildID = r.guildID
	return nil
}

func (r *redeemCodeRepository) get(ctx context.Context, code string, forUpdate bool) (*entities.RedeemCode, error) {
	query := `SELECT ` + redeemCodeColumns + ` FROM redeem_codes WHERE guild_id = $1 AND code = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(ctx, query, r.guildID, code)
	if err != nil {
		return nil, apperr.Persistence("get redeem code", err)
	}
	rc, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[entities.RedeemCode])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence("scan redeem code", err)
	}
	return rc, nil
}

func (r *redeemCodeRepository) Get(ctx context.Context, code string) (*entities.RedeemCode, error) {
	return r.get(ctx, code, false)
}

// GetForUpdate row-locks the code until the transaction ends
func (r *redeemCodeRepository) GetForUpdate(ctx context.Context, code string) (*entities.RedeemCode, error) {
	return r.get(ctx, code, true)
}

func (r *redeemCodeRepository) Update(ctx context.Context, code *entities.RedeemCode) error {
	query := `
		UPDATE redeem_codes
		SET amount = $3, max_uses = $4, uses = $5, expires_at = $6, note = $7, disabled = $8
		WHERE guild_id = $1 AND code = $2
	`
	tag, err := r.q.Exec(ctx, query,
		r.guildID,
		code.Code,
		code.Amount,
		code.MaxUses,
		code.Uses,
		code.ExpiresAt,
		code.Note,
		code.Disabled,
	)
	if err != nil {
		return apperr.Persistence("update redeem code", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.CodeInvalid(apperr.ReasonCodeNotFound, "code %s does not exist", code.Code)
	}
	return nil
}

// Delete removes the code; its claims go with it through the foreign key cascade
func (r *redeemCodeRepository) Delete(ctx context.Context, code string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM redeem_codes WHERE guild_id = $1 AND code = $2`, r.guildID, code)
	if err != nil {
		return false, apperr.Persistence("delete redeem code", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *redeemCodeRepository) List(ctx context.Context) ([]*entities.RedeemCode, error) {
	query := `SELECT ` + redeemCodeColumns + ` FROM redeem_codes WHERE guild_id = $1 ORDER BY created_at DESC, code`
	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, apperr.Persistence("list redeem codes", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entities.RedeemCode])
	if err != nil {
		return nil, apperr.Persistence("scan redeem codes", err)
	}
	return codes, nil
}

func (r *redeemCodeRepository) HasClaimed(ctx context.Context, code string, userID int64) (bool, error) {
	var claimed bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM redeem_claims WHERE guild_id = $1 AND code = $2 AND user_id = $3)`,
		r.guildID, code, userID,
	).Scan(&claimed)
	if err != nil {
		return false, apperr.Persistence("check redeem claim", err)
	}
	return claimed, nil
}

// AddClaim records the claim; the primary key turns a duplicate into AlreadyClaimed
func (r *redeemCodeRepository) AddClaim(ctx context.Context, code string, userID int64, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO redeem_claims (guild_id, code, user_id, claimed_at) VALUES ($1, $2, $3, $4)`,
		r.guildID, code, userID, at,
	)
	if isUniqueViolation(err) {
		return apperr.CodeInvalid(apperr.ReasonCodeAlreadyClaimed, "you already redeemed %s", code)
	}
	if err != nil {
		return apperr.Persistence("record redeem claim", err)
	}
	return nil
}
