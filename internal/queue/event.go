// Package queue defines message payloads exchanged over the message broker.
package queue

// Activity kinds published to the feed.activity queue.
const (
	ActivityUserRegistered = "user.registered"
	ActivityPostLiked      = "post.liked"
)

// ActivityEvent is published when something feed-worthy happens (a new
// account, a post getting liked). It carries enough for downstream
// consumers to log or notify without querying the primary database.
type ActivityEvent struct {
	Kind       string `json:"kind"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	PostID     uint64 `json:"post_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
