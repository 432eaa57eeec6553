package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/social-feed-api/internal/model"
	"github.com/iliyamo/social-feed-api/internal/repository"
	"github.com/iliyamo/social-feed-api/internal/utils"
)

const (
	resolveTokenQuery = "SELECT user_id, token_hash, expires_at, revoked_at FROM access_tokens WHERE id=? LIMIT 1"
	userByIDQuery     = "SELECT id,role,username,first_name,last_name,birth_date,email,password,created_at,updated_at FROM users WHERE id=? LIMIT 1"
)

func newGuard(t *testing.T) (echo.MiddlewareFunc, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return BearerAuth(repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func runGuard(t *testing.T, guard echo.MiddlewareFunc, authHeader string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, guard(next)(c))
	return rec
}

func TestBearerAuthRejectsWithoutHittingStore(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer scheme", "Basic dXNlcjpwYXNz"},
		{"wrong prefix", "Bearer oat_MQ.deadbeef"},
		{"malformed token", "Bearer sfa_not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard, mock := newGuard(t)

			called := false
			rec := runGuard(t, guard, tt.header, func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
			assert.False(t, called)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBearerAuthResolvesIdentity(t *testing.T) {
	guard, mock := newGuard(t)

	ts, err := utils.NewTokenSecret(30)
	require.NoError(t, err)
	raw := utils.ComposeToken(5, ts.Secret)

	now := time.Now().UTC()
	mock.ExpectQuery(resolveTokenQuery).WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "token_hash", "expires_at", "revoked_at"}).
			AddRow(9, utils.HashTokenSecret(ts.Secret), ts.Exp, nil))
	mock.ExpectQuery(userByIDQuery).WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "role", "username", "first_name", "last_name",
			"birth_date", "email", "password", "created_at", "updated_at",
		}).AddRow(9, model.RoleUser, "alice", "Alice", "Baker",
			now.AddDate(-30, 0, 0), "a@x.com", "hash", now, now))

	rec := runGuard(t, guard, "Bearer "+raw, func(c echo.Context) error {
		u, err := CurrentUser(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(9), u.ID)
		assert.Equal(t, "alice", u.Username)

		tokenID, err := CurrentTokenID(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), tokenID)
		return c.NoContent(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBearerAuthRejectsDeadToken(t *testing.T) {
	guard, mock := newGuard(t)

	ts, err := utils.NewTokenSecret(30)
	require.NoError(t, err)
	raw := utils.ComposeToken(5, ts.Secret)

	mock.ExpectQuery(resolveTokenQuery).WithArgs(uint64(5)).
		WillReturnError(sql.ErrNoRows)

	rec := runGuard(t, guard, "Bearer "+raw, func(c echo.Context) error {
		t.Fatal("handler must not run for a dead token")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentUserWithoutGuard(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := CurrentUser(c)
	assert.ErrorIs(t, err, ErrNoIdentity)

	_, err = CurrentTokenID(c)
	assert.ErrorIs(t, err, ErrNoIdentity)
}
