package models

import (
	"time"

	"github.com/google/uuid"
)

// FriendRequest is a directed pending edge. Accepting it materializes two
// Friend rows (one per direction) and deletes the request; declining just
// deletes the request.
type FriendRequest struct {
	ID         uuid.UUID `json:"id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`

	// FromUsername is joined in when listing incoming requests.
	FromUsername string `json:"from_username,omitempty"`
}
