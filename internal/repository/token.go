package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrRefreshInvalid is returned when a refresh token hash is unknown,
// expired or revoked.
var ErrRefreshInvalid = errors.New("refresh token inválido")

// TokenRepo persists refresh tokens for back-office sessions.  Only the
// SHA-256 hash of the raw token is ever stored.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row for an administrator.
func (r *TokenRepo) StoreRefresh(ctx context.Context, adminID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (admin_id, token_hash, expires_at) VALUES (?,?,?)",
		adminID, tokenHash, exp)
	return err
}

// ValidateRefresh returns the owning admin id when the hash is known, not
// expired and not revoked.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var adminID uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT admin_id FROM refresh_tokens
		 WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > NOW() LIMIT 1`,
		tokenHash).Scan(&adminID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRefreshInvalid
	}
	if err != nil {
		return 0, err
	}
	return adminID, nil
}

// RevokeByHash marks one refresh token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = ? AND revoked_at IS NULL",
		tokenHash)
	return err
}
