package model

import "time"

// Post mirrors the `posts` table. The likes and comments columns are
// denormalized counters maintained by the repository layer so list
// responses never need an aggregate query.
type Post struct {
	ID        uint64    `json:"id"`                 // posts.id
	UserID    uint64    `json:"userId"`             // posts.user_id
	Content   string    `json:"content"`            // posts.content
	ImageURL  *string   `json:"imageUrl,omitempty"` // posts.image_url (nullable)
	Likes     uint32    `json:"likes"`              // posts.likes
	Comments  uint32    `json:"comments"`           // posts.comments
	CreatedAt time.Time `json:"createdAt"`          // posts.created_at
	UpdatedAt time.Time `json:"updatedAt"`          // posts.updated_at
}
