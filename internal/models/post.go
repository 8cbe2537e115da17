package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Content  string    `json:"content"`

	// Image is the stored filename of an attached image, empty if none.
	Image string `json:"image,omitempty"`

	CreatedAt    time.Time `json:"created_at"`
	CommentCount int       `json:"comment_count"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
