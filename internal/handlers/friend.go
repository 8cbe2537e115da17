// internal/handlers/friend.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/middleware"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/notify"
)

// friendsResponse is the payload of GET /friends: confirmed friends plus
// incoming pending requests.
type friendsResponse struct {
	Friends  []models.User          `json:"friends"`
	Requests []models.FriendRequest `json:"requests"`
}

// ListFriends returns the authenticated user's friends and pending incoming
// requests.
func (s *Server) ListFriends(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	friends, err := s.Store.ListFriends(r.Context(), user.ID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	requests, err := s.Store.ListFriendRequests(r.Context(), user.ID)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, friendsResponse{Friends: friends, Requests: requests})
}

// SendFriendRequest handles the authenticated user requesting friendship
// with the user named in the payload.
//
// Request payload: { "username": "bob" }
func (s *Server) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	fr, err := s.Store.SendFriendRequest(r.Context(), user.ID, req.Username)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.publishActivity(r.Context(), user.ID, models.EventRequestSent, map[string]interface{}{
		"to_user_id": fr.ToUserID.String(),
	})
	s.Notifier.Push(fr.ToUserID, notify.Event{
		Type: notify.EventFriendRequest,
		Payload: map[string]interface{}{
			"request_id":    fr.ID.String(),
			"from_username": user.Username,
		},
	})

	s.writeJSON(w, http.StatusCreated, fr)
}

// HandleFriendRequest accepts or declines a pending request addressed to the
// authenticated user.
//
// Request payload: { "request_id": "uuid", "action": "accept" | "decline" }
func (s *Server) HandleFriendRequest(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req struct {
		RequestID string `json:"request_id"`
		Action    string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		http.Error(w, "invalid request_id", http.StatusBadRequest)
		return
	}
	if req.Action != "accept" && req.Action != "decline" {
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	accept := req.Action == "accept"

	fr, err := s.Store.ResolveFriendRequest(r.Context(), requestID, user.ID, accept)
	if err != nil {
		s.storeError(w, err)
		return
	}

	if accept {
		s.publishActivity(r.Context(), user.ID, models.EventRequestAccepted, map[string]interface{}{
			"from_user_id": fr.FromUserID.String(),
		})
		s.Notifier.Push(fr.FromUserID, notify.Event{
			Type: notify.EventFriendAccepted,
			Payload: map[string]interface{}{
				"username": user.Username,
			},
		})
		s.writeJSON(w, http.StatusOK, map[string]string{"message": "friend request accepted"})
		return
	}

	s.publishActivity(r.Context(), user.ID, models.EventRequestDeclined, map[string]interface{}{
		"from_user_id": fr.FromUserID.String(),
	})
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "friend request declined"})
}
