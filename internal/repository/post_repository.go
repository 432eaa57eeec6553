package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/social-feed-api/internal/model"
)

// PostRepo owns the `posts` table, including the denormalized likes and
// comments counters.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = "id,user_id,content,image_url,likes,comments,created_at,updated_at"

// Create inserts a post for the given author and returns its id.
func (r *PostRepo) Create(ctx context.Context, userID uint64, content string, imageURL *string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (user_id, content, image_url) VALUES (?,?,?)",
		userID, content, imageURL)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a post by id.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	return scanPost(r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id=? LIMIT 1", id))
}

// List returns one page of posts, newest first, plus the total row count.
func (r *PostRepo) List(ctx context.Context, page, limit int) ([]model.Post, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts ORDER BY id DESC LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := make([]model.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// UpdateContent replaces a post's content. Returns sql.ErrNoRows when the
// post does not exist.
func (r *PostRepo) UpdateContent(ctx context.Context, id uint64, content string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET content=? WHERE id=?", content, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing row from an update that wrote the same
		// content back: MySQL reports zero affected rows for both.
		var exists int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM posts WHERE id=? LIMIT 1", id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByIDAndOwner removes a post only when it belongs to ownerID.
// Returns sql.ErrNoRows when the post does not exist and ErrForbidden when
// it is owned by someone else; in both cases the row is untouched.
func (r *PostRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	var authorID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM posts WHERE id=? LIMIT 1", id).Scan(&authorID)
	if err != nil {
		return err
	}
	if authorID != ownerID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	return err
}

// Like increments a post's like counter and returns the updated row.
// Returns sql.ErrNoRows when the post does not exist.
func (r *PostRepo) Like(ctx context.Context, id uint64) (model.Post, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET likes=likes+1 WHERE id=?", id)
	if err != nil {
		return model.Post{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Post{}, err
	}
	if n == 0 {
		return model.Post{}, sql.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func scanPost(s rowScanner) (model.Post, error) {
	var p model.Post
	err := s.Scan(&p.ID, &p.UserID, &p.Content, &p.ImageURL,
		&p.Likes, &p.Comments, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
