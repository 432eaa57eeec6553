package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-feed-api/internal/middleware"
	"github.com/iliyamo/social-feed-api/internal/repository"
	"github.com/iliyamo/social-feed-api/internal/validation"
)

// CommentHandler serves comments nested under posts plus the comment like
// endpoint.
type CommentHandler struct {
	Comments *repository.CommentRepo
}

func NewCommentHandler(cm *repository.CommentRepo) *CommentHandler {
	return &CommentHandler{Comments: cm}
}

type commentReq struct {
	Content string `json:"content" validate:"required,min=1,max=255"`
}

// Store creates a comment on the post named in the path and bumps that
// post's comment counter.
func (h *CommentHandler) Store(c echo.Context) error {
	u, err := middleware.CurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return validation.JSON(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Comments.Create(ctx, pathID(c), u.ID, req.Content)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Creating comment failed"})
	}
	comment, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Creating comment failed"})
	}
	return c.JSON(http.StatusCreated, comment)
}

// Index returns one page of a post's comments in posting order.
func (h *CommentHandler) Index(c echo.Context) error {
	page, limit := pageParams(c, "page", "limit")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, total, err := h.Comments.ListByPost(ctx, pathID(c), page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Listing comments failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": comments,
		"meta": newPageMeta(total, page, limit),
	})
}

// Like increments a comment's like counter and reports the updated
// comment.
func (h *CommentHandler) Like(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comment, err := h.Comments.Like(ctx, pathID(c))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Liking comment failed"})
	}
	return c.JSON(http.StatusOK, comment)
}
