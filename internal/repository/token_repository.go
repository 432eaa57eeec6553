package repository

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"time"
)

// TokenRepo persists and resolves access tokens. Only the SHA-256 hash of
// a token's secret segment is stored; the raw bearer value exists solely
// on the client.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Issue inserts a token row and returns its id, which the caller encodes
// into the raw bearer value handed to the client.
func (r *TokenRepo) Issue(ctx context.Context, userID uint64, tokenHash, abilities string, exp time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO access_tokens (user_id, token_hash, abilities, expires_at) VALUES (?,?,?,?)",
		userID, tokenHash, abilities, exp)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Resolve returns the owning user id when the token row exists, the secret
// hash matches, and the token is neither revoked nor expired. Every
// failure mode collapses into ErrTokenInvalid so callers cannot leak which
// check rejected the credential.
func (r *TokenRepo) Resolve(ctx context.Context, id uint64, tokenHash string) (uint64, error) {
	var (
		userID     uint64
		storedHash string
		expiresAt  time.Time
		revokedAt  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, token_hash, expires_at, revoked_at FROM access_tokens WHERE id=? LIMIT 1",
		id).Scan(&userID, &storedHash, &expiresAt, &revokedAt)
	if err == sql.ErrNoRows {
		return 0, ErrTokenInvalid
	}
	if err != nil {
		return 0, err
	}
	if subtle.ConstantTimeCompare([]byte(storedHash), []byte(tokenHash)) != 1 {
		return 0, ErrTokenInvalid
	}
	if revokedAt.Valid {
		return 0, ErrTokenInvalid
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, ErrTokenInvalid
	}
	return userID, nil
}

// RevokeByID marks a single token as revoked. Revoking an already-revoked
// token matches zero rows and is a no-op, which makes logout idempotent.
func (r *TokenRepo) RevokeByID(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE access_tokens SET revoked_at=NOW() WHERE id=? AND revoked_at IS NULL",
		id)
	return err
}

// RevokeAllForUser revokes every live token a user holds. Used when an
// account is deleted.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE access_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
