package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token/refresh"
)

type RefreshTokenRepo struct{ db *DB }

var _ refresh.Repo = (*RefreshTokenRepo)(nil)

func NewRefreshTokenRepo(db *DB) *RefreshTokenRepo { return &RefreshTokenRepo{db: db} }

const (
	qRTSave = `
INSERT INTO refresh_tokens(id, user_id, token, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5);
`
	qRTValidate = `
SELECT id, user_id, token, expires_at, created_at
FROM refresh_tokens
WHERE token = $1 AND expires_at > NOW()
LIMIT 1;
`
	// Single-statement delete-and-return: of two refresh attempts racing on
	// the same token, exactly one gets the row back.
	qRTTake = `
DELETE FROM refresh_tokens
WHERE token = $1 AND expires_at > NOW()
RETURNING id, user_id, token, expires_at, created_at;
`
	qRTInvalidate = `
DELETE FROM refresh_tokens WHERE token = $1;
`
)

func (r *RefreshTokenRepo) Save(ctx context.Context, rec *refresh.StoredRefreshToken) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Pool.Exec(ctx, qRTSave, rec.ID, rec.UserID, rec.Token, rec.ExpiresAt, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepo) Validate(ctx context.Context, tokenValue string) (*refresh.StoredRefreshToken, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var rec refresh.StoredRefreshToken
	err := r.db.Pool.QueryRow(ctx, qRTValidate, tokenValue).
		Scan(&rec.ID, &rec.UserID, &rec.Token, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("validate refresh token: %w", err)
	}
	return &rec, nil
}

func (r *RefreshTokenRepo) Take(ctx context.Context, tokenValue string) (*refresh.StoredRefreshToken, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var rec refresh.StoredRefreshToken
	err := r.db.Pool.QueryRow(ctx, qRTTake, tokenValue).
		Scan(&rec.ID, &rec.UserID, &rec.Token, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("take refresh token: %w", err)
	}
	return &rec, nil
}

func (r *RefreshTokenRepo) Invalidate(ctx context.Context, tokenValue string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qRTInvalidate, tokenValue); err != nil {
		return fmt.Errorf("invalidate refresh token: %w", err)
	}
	return nil
}
