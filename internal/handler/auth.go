package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-feed-api/internal/config"
	"github.com/iliyamo/social-feed-api/internal/middleware"
	"github.com/iliyamo/social-feed-api/internal/queue"
	"github.com/iliyamo/social-feed-api/internal/repository"
	queuepublisher "github.com/iliyamo/social-feed-api/internal/service"
	"github.com/iliyamo/social-feed-api/internal/utils"
	"github.com/iliyamo/social-feed-api/internal/validation"
)

// defaultAbilities is the abilities set stamped on every issued token.
// The wildcard grants full access; scoped tokens are not part of the API.
const defaultAbilities = `["*"]`

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=20"`
	Username  string `json:"username" validate:"required,min=3,max=20"`
	FirstName string `json:"firstName" validate:"required,min=3,max=20"`
	LastName  string `json:"lastName" validate:"required,min=3,max=20"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResp struct {
	Type      string    `json:"type"`
	Token     string    `json:"token"`
	Abilities []string  `json:"abilities"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register creates a user and returns the stored record without the
// password. The email/username pre-checks exist for friendly messages
// only; the unique indexes decide races, and Create maps their violations
// to the same conflict responses.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return validation.JSON(c, err)
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return validation.JSON(c, validation.Errors{"birthDate": "must be a date in YYYY-MM-DD format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already exists"})
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
	}
	if _, err := h.Users.GetByUsername(ctx, req.Username); err == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username already exists"})
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
	}

	id, err := h.Users.Create(ctx, repository.NewUser{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: birthDate,
		Password:  req.Password,
	}, h.Cfg.BcryptCost)
	if err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already exists"})
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
		}
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
	}

	_ = queuepublisher.PublishActivity(ctx, h.Cfg.AMQPURL, queue.ActivityEvent{
		Kind:       queue.ActivityUserRegistered,
		UserID:     u.ID,
		Username:   u.Username,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"user": u})
}

// Login verifies credentials and mints a fresh access token. An unknown
// email and a wrong password return byte-identical responses so the
// endpoint cannot be used to probe which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return validation.JSON(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	secret, err := utils.NewTokenSecret(h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed"})
	}
	tokenID, err := h.Tokens.Issue(ctx, u.ID, utils.HashTokenSecret(secret.Secret), defaultAbilities, secret.Exp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed"})
	}

	return c.JSON(http.StatusOK, tokenResp{
		Type:      "bearer",
		Token:     utils.ComposeToken(tokenID, secret.Secret),
		Abilities: []string{"*"},
		ExpiresAt: secret.Exp,
	})
}

// Logout revokes exactly the token presented on this request. Revoking a
// token that is already dead is a no-op, so repeated logouts with the same
// bearer succeed.
func (h *AuthHandler) Logout(c echo.Context) error {
	tokenID, err := middleware.CurrentTokenID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeByID(ctx, tokenID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}
