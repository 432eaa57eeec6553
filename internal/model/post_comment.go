package model

import "time"

// PostComment mirrors the `post_comments` table. Comments carry their own
// like counter; creating one also bumps the parent post's comments column.
type PostComment struct {
	ID        uint64    `json:"id"`        // post_comments.id
	PostID    uint64    `json:"postId"`    // post_comments.post_id
	UserID    uint64    `json:"userId"`    // post_comments.user_id
	Content   string    `json:"content"`   // post_comments.content
	Likes     uint32    `json:"likes"`     // post_comments.likes
	CreatedAt time.Time `json:"createdAt"` // post_comments.created_at
	UpdatedAt time.Time `json:"updatedAt"` // post_comments.updated_at
}
