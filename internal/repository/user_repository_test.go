package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/social-feed-api/internal/model"
	"github.com/iliyamo/social-feed-api/internal/utils"
)

const insertUserQuery = "INSERT INTO users (email, username, first_name, last_name, birth_date, password, role) VALUES (?,?,?,?,?,?,?)"

func newUserFixture() NewUser {
	return NewUser{
		Email:     "a@x.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Baker",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Password:  "secret1",
	}
}

func userRows(id uint64, email, username, hash string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "role", "username", "first_name", "last_name",
		"birth_date", "email", "password", "created_at", "updated_at",
	}).AddRow(id, model.RoleUser, username, "Alice", "Baker",
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), email, hash, now, now)
}

func TestUserRepoCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)
	nu := newUserFixture()

	mock.ExpectExec(insertUserQuery).
		WithArgs("a@x.com", "alice", "Alice", "Baker", nu.BirthDate, sqlmock.AnyArg(), model.RoleUser).
		WillReturnResult(sqlmock.NewResult(3, 1))

	id, err := repo.Create(context.Background(), nu, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreateNormalizesEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)
	nu := newUserFixture()
	nu.Email = "  A@X.Com "

	mock.ExpectExec(insertUserQuery).
		WithArgs("a@x.com", "alice", "Alice", "Baker", nu.BirthDate, sqlmock.AnyArg(), model.RoleUser).
		WillReturnResult(sqlmock.NewResult(4, 1))

	_, err := repo.Create(context.Background(), nu, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreateMapsDuplicateKeys(t *testing.T) {
	tests := []struct {
		name    string
		driver  error
		want    error
	}{
		{
			"duplicate email",
			errors.New("Error 1062 (23000): Duplicate entry 'a@x.com' for key 'users.uq_users_email'"),
			ErrEmailExists,
		},
		{
			"duplicate username",
			errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.uq_users_username'"),
			ErrUsernameExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepo(db)

			mock.ExpectExec(insertUserQuery).WillReturnError(tt.driver)

			_, err := repo.Create(context.Background(), newUserFixture(), bcrypt.MinCost)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserRepoGetByEmailNormalizes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	hash, err := utils.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1").
		WithArgs("a@x.com").
		WillReturnRows(userRows(3, "a@x.com", "alice", hash))

	u, err := repo.GetByEmail(context.Background(), " A@X.com ")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), u.ID)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "secret1"))
}

func TestUserRepoList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT COUNT(*) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("SELECT " + userColumns + " FROM users ORDER BY id LIMIT ? OFFSET ?").
		WithArgs(10, 10).
		WillReturnRows(userRows(11, "k@x.com", "kim", "hash"))

	users, total, err := repo.List(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, users, 1)
	assert.Equal(t, "kim", users[0].Username)
}

func TestUserRepoDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("DELETE FROM users WHERE id=?").
		WithArgs(uint64(99)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
