package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

const resolveQuery = "SELECT user_id, token_hash, expires_at, revoked_at FROM access_tokens WHERE id=? LIMIT 1"

func tokenRow(userID uint64, hash string, exp time.Time, revoked *time.Time) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"user_id", "token_hash", "expires_at", "revoked_at"})
	if revoked != nil {
		return r.AddRow(userID, hash, exp, *revoked)
	}
	return r.AddRow(userID, hash, exp, nil)
}

func TestTokenRepoIssue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)
	exp := time.Now().UTC().Add(30 * 24 * time.Hour)

	mock.ExpectExec("INSERT INTO access_tokens (user_id, token_hash, abilities, expires_at) VALUES (?,?,?,?)").
		WithArgs(uint64(9), "hash", `["*"]`, exp).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Issue(context.Background(), 9, "hash", `["*"]`, exp)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoResolveLive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectQuery(resolveQuery).WithArgs(uint64(7)).
		WillReturnRows(tokenRow(9, "hash", time.Now().UTC().Add(time.Hour), nil))

	userID, err := repo.Resolve(context.Background(), 7, "hash")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), userID)
}

func TestTokenRepoResolveRejectsDeadTokens(t *testing.T) {
	revoked := time.Now().UTC().Add(-time.Minute)

	tests := []struct {
		name string
		rows *sqlmock.Rows
		hash string
	}{
		{"unknown id", nil, "hash"},
		{"secret mismatch", tokenRow(9, "hash", time.Now().UTC().Add(time.Hour), nil), "other"},
		{"revoked", tokenRow(9, "hash", time.Now().UTC().Add(time.Hour), &revoked), "hash"},
		{"expired", tokenRow(9, "hash", time.Now().UTC().Add(-time.Hour), nil), "hash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewTokenRepo(db)

			q := mock.ExpectQuery(resolveQuery).WithArgs(uint64(7))
			if tt.rows == nil {
				q.WillReturnError(sql.ErrNoRows)
			} else {
				q.WillReturnRows(tt.rows)
			}

			_, err := repo.Resolve(context.Background(), 7, tt.hash)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenRepoRevokeByIDIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	// First revocation touches the row, the second matches nothing; both
	// must succeed.
	mock.ExpectExec("UPDATE access_tokens SET revoked_at=NOW() WHERE id=? AND revoked_at IS NULL").
		WithArgs(uint64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE access_tokens SET revoked_at=NOW() WHERE id=? AND revoked_at IS NULL").
		WithArgs(uint64(7)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.RevokeByID(context.Background(), 7))
	require.NoError(t, repo.RevokeByID(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoRevokeAllForUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec("UPDATE access_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL").
		WithArgs(uint64(9)).WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.RevokeAllForUser(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}
