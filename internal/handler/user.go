package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-feed-api/internal/middleware"
	"github.com/iliyamo/social-feed-api/internal/repository"
)

// UserHandler serves the user resource endpoints. All routes sit behind
// the bearer guard; deletion additionally requires the admin role.
type UserHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewUserHandler(u *repository.UserRepo, t *repository.TokenRepo) *UserHandler {
	return &UserHandler{Users: u, Tokens: t}
}

// Me returns the identity resolved by the guard for this request.
func (h *UserHandler) Me(c echo.Context) error {
	u, err := middleware.CurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	return c.JSON(http.StatusOK, u)
}

// Index returns one page of users. The requesting user is logged, which
// keeps an audit trail of who browses the directory.
func (h *UserHandler) Index(c echo.Context) error {
	u, err := middleware.CurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	page, perPage := pageParams(c, "page", "perPage")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, total, err := h.Users.List(ctx, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Listing users failed"})
	}
	c.Logger().Infof("users fetched by %s", u.Username)
	return c.JSON(http.StatusOK, echo.Map{
		"data": users,
		"meta": newPageMeta(total, page, perPage),
	})
}

// Show returns a single user by id.
func (h *UserHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, pathID(c))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Loading user failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// Delete removes a user account (admin only, enforced by RequireRole in
// the router). The user's live tokens are revoked before the row delete;
// the access_tokens foreign key cascade backs this up, but revocation
// should not depend on FK enforcement alone.
func (h *UserHandler) Delete(c echo.Context) error {
	id := pathID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Deleting user failed"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Deleting user failed"})
	}
	if err := h.Users.Delete(ctx, id); err != nil && err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Deleting user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
