package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-feed-api/internal/model"
	"github.com/iliyamo/social-feed-api/internal/repository"
	"github.com/iliyamo/social-feed-api/internal/utils"
)

// Context keys written by BearerAuth. Handlers read them through
// CurrentUser and CurrentTokenID instead of touching the keys directly.
const (
	userContextKey  = "auth.user"
	tokenContextKey = "auth.token_id"
)

// ErrNoIdentity is returned by CurrentUser/CurrentTokenID when the guard
// did not run on this request or rejected it.
var ErrNoIdentity = errors.New("no authenticated identity in context")

// BearerAuth is the route guard for protected endpoints. Per request it
// expects `Authorization: Bearer <token>`, parses the opaque token into an
// id and secret, resolves it against the token store and loads the owning
// user. Missing header, malformed token, secret mismatch, expiry and
// revocation all collapse into the same 401 so the response never reveals
// which check failed. On success the resolved user and token id are
// attached to the request context for downstream handlers.
func BearerAuth(users *repository.UserRepo, tokens *repository.TokenRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tokenID, secret, err := utils.ParseToken(raw)
			if err != nil {
				return unauthorized(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			userID, err := tokens.Resolve(ctx, tokenID, utils.HashTokenSecret(secret))
			if err != nil {
				if errors.Is(err, repository.ErrTokenInvalid) {
					return unauthorized(c)
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Authentication failed"})
			}

			u, err := users.GetByID(ctx, userID)
			if err != nil {
				// A live token whose user vanished behaves like any other
				// dead token.
				return unauthorized(c)
			}

			c.Set(userContextKey, &u)
			c.Set(tokenContextKey, tokenID)
			return next(c)
		}
	}
}

// CurrentUser returns the identity the guard resolved for this request.
func CurrentUser(c echo.Context) (*model.User, error) {
	u, ok := c.Get(userContextKey).(*model.User)
	if !ok || u == nil {
		return nil, ErrNoIdentity
	}
	return u, nil
}

// CurrentTokenID returns the id of the access token presented on this
// request. Logout uses it to revoke exactly the presented token.
func CurrentTokenID(c echo.Context) (uint64, error) {
	id, ok := c.Get(tokenContextKey).(uint64)
	if !ok || id == 0 {
		return 0, ErrNoIdentity
	}
	return id, nil
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
}
