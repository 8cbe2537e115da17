package models

import "github.com/google/uuid"

// ActivityRecord is a single activity-log event pushed onto the Redis queue
// by the web server and drained into the activity_log table by the historian.
type ActivityRecord struct {
	ActorID   uuid.UUID              `json:"actor_id"`
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp int64                  `json:"timestamp"`
}

// Activity event types.
const (
	EventUserRegistered  = "user_registered"
	EventPostCreated     = "post_created"
	EventCommentAdded    = "comment_added"
	EventRequestSent     = "friend_request_sent"
	EventRequestAccepted = "friend_request_accepted"
	EventRequestDeclined = "friend_request_declined"
	EventProfileUpdated  = "profile_updated"
)
