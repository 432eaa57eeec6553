package handler

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-feed-api/internal/middleware"
	"github.com/iliyamo/social-feed-api/internal/queue"
	"github.com/iliyamo/social-feed-api/internal/repository"
	queuepublisher "github.com/iliyamo/social-feed-api/internal/service"
	"github.com/iliyamo/social-feed-api/internal/storage"
	"github.com/iliyamo/social-feed-api/internal/validation"
)

// PostHandler serves the post resource. Images is nil when no object
// storage is configured, in which case image parts are rejected.
type PostHandler struct {
	Posts   *repository.PostRepo
	Images  *storage.ImageStore
	AMQPURL string
}

func NewPostHandler(p *repository.PostRepo, images *storage.ImageStore, amqpURL string) *PostHandler {
	return &PostHandler{Posts: p, Images: images, AMQPURL: amqpURL}
}

type postReq struct {
	Content string `json:"content" form:"content" validate:"required,min=1,max=255"`
}

// Index returns one page of posts, newest first.
func (h *PostHandler) Index(c echo.Context) error {
	page, limit := pageParams(c, "page", "limit")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, total, err := h.Posts.List(ctx, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Listing posts failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": posts,
		"meta": newPageMeta(total, page, limit),
	})
}

// Store creates a post for the authenticated user. Clients may send plain
// JSON or a multipart form with an optional image part, which is uploaded
// to the blob store and referenced from the post.
func (h *PostHandler) Store(c echo.Context) error {
	u, err := middleware.CurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return validation.JSON(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	imageURL, err := h.uploadImage(ctx, c)
	if err != nil {
		return validation.JSON(c, err)
	}

	id, err := h.Posts.Create(ctx, u.ID, req.Content, imageURL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Creating post failed"})
	}
	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Creating post failed"})
	}
	return c.JSON(http.StatusCreated, post)
}

// uploadImage stores the optional multipart image part and returns its
// public URL, or nil when the request carries no image. Constraint
// violations come back as validation.Errors keyed on "image".
func (h *PostHandler) uploadImage(ctx context.Context, c echo.Context) (*string, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		// Multipart request without an image part.
		return nil, nil
	}
	if h.Images == nil {
		return nil, validation.Errors{"image": "image uploads are not enabled"}
	}
	if fh.Size > storage.MaxImageBytes {
		return nil, validation.Errors{"image": "must be at most 5 MB"}
	}
	ext := filepath.Ext(fh.Filename)
	if !storage.AllowedImageExt(ext) {
		return nil, validation.Errors{"image": "must be a jpg, jpeg, png, gif or webp file"}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, validation.Errors{"image": "could not be read"}
	}
	defer f.Close()

	url, err := h.Images.UploadPostImage(ctx, f, ext, fh.Header.Get("Content-Type"))
	if err != nil {
		c.Logger().Errorf("image upload failed: %v", err)
		return nil, validation.Errors{"image": "upload failed"}
	}
	return &url, nil
}

// Show returns a single post by id.
func (h *PostHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, pathID(c))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Loading post failed"})
	}
	return c.JSON(http.StatusOK, post)
}

// Update replaces a post's content. Authentication is required but
// ownership is not checked here; deletion is the only owner-gated
// operation.
func (h *PostHandler) Update(c echo.Context) error {
	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return validation.JSON(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id := pathID(c)
	if err := h.Posts.UpdateContent(ctx, id, req.Content); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Updating post failed"})
	}
	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Updating post failed"})
	}
	return c.JSON(http.StatusOK, post)
}

// Destroy deletes a post owned by the authenticated user. Deleting
// someone else's post is forbidden and leaves the post in place.
func (h *PostHandler) Destroy(c echo.Context) error {
	u, err := middleware.CurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Posts.DeleteByIDAndOwner(ctx, pathID(c), u.ID)
	switch err {
	case nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted"})
	case sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Post not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Deleting post failed"})
	}
}

// Like increments a post's like counter and reports the updated post.
func (h *PostHandler) Like(c echo.Context) error {
	u, err := middleware.CurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	post, err := h.Posts.Like(ctx, pathID(c))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Liking post failed"})
	}

	_ = queuepublisher.PublishActivity(ctx, h.AMQPURL, queue.ActivityEvent{
		Kind:       queue.ActivityPostLiked,
		UserID:     u.ID,
		Username:   u.Username,
		PostID:     post.ID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, post)
}
