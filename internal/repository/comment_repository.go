package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/social-feed-api/internal/model"
)

// CommentRepo owns the `post_comments` table and keeps the parent post's
// comments counter in step with it.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentColumns = "id,post_id,user_id,content,likes,created_at,updated_at"

// Create inserts a comment and bumps the post's comment counter in one
// transaction. Returns sql.ErrNoRows when the post does not exist.
func (r *CommentRepo) Create(ctx context.Context, postID, userID uint64, content string) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE posts SET comments=comments+1 WHERE id=?", postID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, sql.ErrNoRows
	}

	res, err = tx.ExecContext(ctx,
		"INSERT INTO post_comments (post_id, user_id, content) VALUES (?,?,?)",
		postID, userID, content)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (model.PostComment, error) {
	return scanComment(r.DB.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM post_comments WHERE id=? LIMIT 1", id))
}

// ListByPost returns one page of a post's comments in posting order plus
// the total count for that post.
func (r *CommentRepo) ListByPost(ctx context.Context, postID uint64, page, limit int) ([]model.PostComment, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM post_comments WHERE post_id=?", postID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM post_comments WHERE post_id=? ORDER BY id LIMIT ? OFFSET ?",
		postID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comments := make([]model.PostComment, 0, limit)
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, cm)
	}
	return comments, total, rows.Err()
}

// Like increments a comment's like counter and returns the updated row.
// Returns sql.ErrNoRows when the comment does not exist.
func (r *CommentRepo) Like(ctx context.Context, id uint64) (model.PostComment, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE post_comments SET likes=likes+1 WHERE id=?", id)
	if err != nil {
		return model.PostComment{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.PostComment{}, err
	}
	if n == 0 {
		return model.PostComment{}, sql.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func scanComment(s rowScanner) (model.PostComment, error) {
	var cm model.PostComment
	err := s.Scan(&cm.ID, &cm.PostID, &cm.UserID, &cm.Content,
		&cm.Likes, &cm.CreatedAt, &cm.UpdatedAt)
	return cm, err
}
