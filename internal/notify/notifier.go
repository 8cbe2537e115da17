// Package notify pushes live events (incoming friend requests, accepted
// requests, new friend posts) to connected websocket clients. Delivery is
// best effort: a slow or absent client never blocks a request.
package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Event is a single notification sent to a client.
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Event types.
const (
	EventFriendRequest  = "friend_request"
	EventFriendAccepted = "friend_accepted"
	EventNewPost        = "new_post"
	EventNewComment     = "new_comment"
)

// Connection is one registered websocket client. Events to deliver arrive on
// Out; the write pump owns draining it.
type Connection struct {
	UserID uuid.UUID
	Out    chan Event
}

// Notifier is an in-memory registry of live connections keyed by user ID.
// A user may hold several connections (multiple tabs).
type Notifier struct {
	mu    sync.Mutex
	conns map[uuid.UUID]map[*Connection]struct{}
}

func New() *Notifier {
	return &Notifier{
		conns: make(map[uuid.UUID]map[*Connection]struct{}),
	}
}

// Register adds a connection for userID and returns it.
func (n *Notifier) Register(userID uuid.UUID) *Connection {
	conn := &Connection{
		UserID: userID,
		Out:    make(chan Event, 16),
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conns[userID] == nil {
		n.conns[userID] = make(map[*Connection]struct{})
	}
	n.conns[userID][conn] = struct{}{}
	return conn
}

// Unregister removes a connection and closes its out channel.
func (n *Notifier) Unregister(conn *Connection) {
	n.mu.Lock()
	defer n.mu.Unlock()

	set, ok := n.conns[conn.UserID]
	if !ok {
		return
	}
	if _, ok := set[conn]; !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(n.conns, conn.UserID)
	}
	close(conn.Out)
}

// Push delivers an event to every live connection of userID without
// blocking; events to a full buffer are dropped.
func (n *Notifier) Push(userID uuid.UUID, ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for conn := range n.conns[userID] {
		select {
		case conn.Out <- ev:
		default:
		}
	}
}

// PushAll delivers an event to each of the given users.
func (n *Notifier) PushAll(userIDs []uuid.UUID, ev Event) {
	for _, id := range userIDs {
		n.Push(id, ev)
	}
}
