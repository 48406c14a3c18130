package repository

import (
	"context"
	"errors"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/db"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/jackc/pgx/v5"
)

type RefreshTokenRepository struct {
	DB *db.Postgres
}

func (r RefreshTokenRepository) Add(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, now())
	`, userID, token, expiresAt)
	return err
}

func (r RefreshTokenRepository) Get(ctx context.Context, token string) (*domain.RefreshToken, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at, revoked_at, is_revoked, replaced_by_token
		FROM refresh_tokens
		WHERE token=$1
	`, token)
	var t domain.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt, &t.IsRevoked, &t.ReplacedByToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Revoke flips the revoked flag only if it is still clear. Two concurrent
// refresh calls against the same token therefore produce exactly one
// winner; the loser sees zero rows affected and fails.
func (r RefreshTokenRepository) Revoke(ctx context.Context, token string, replacedBy *string, at time.Time) (bool, error) {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE refresh_tokens
		SET is_revoked=TRUE, revoked_at=$1, replaced_by_token=$2
		WHERE token=$3 AND is_revoked=FALSE
	`, at, replacedBy, token)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
