package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists/validates staff refresh tokens (single 'token_hash'
// column). The panel uses one shared password, so tokens are not tied to an
// account; each row is an independent staff session.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO staff_refresh_tokens (token_hash, expires_at) VALUES (?,?)",
		tokenHash, exp)
	return err
}

// ValidateRefresh succeeds if a non-revoked, non-expired token exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) error {
	var (
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT expires_at, revoked_at FROM staff_refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&expiresAt, &revokedAt)
	if err != nil {
		return err
	}
	if revokedAt.Valid {
		return sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return sql.ErrNoRows
	}
	return nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE staff_refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}
