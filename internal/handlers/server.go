// Package handlers holds the HTTP surface of the service. The Server struct
// carries the injected collaborators (store, uploads, activity publisher,
// notifier); every handler is a method on it.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/activity"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/database"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/middleware"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/notify"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/uploads"
)

type Server struct {
	Store    *database.Store
	Log      *logrus.Logger
	Uploads  *uploads.Store
	Activity *activity.Publisher // nil when Redis is not configured
	Notifier *notify.Notifier
}

func NewServer(store *database.Store, log *logrus.Logger, up *uploads.Store, pub *activity.Publisher, notifier *notify.Notifier) *Server {
	return &Server{
		Store:    store,
		Log:      log,
		Uploads:  up,
		Activity: pub,
		Notifier: notifier,
	}
}

// Routes assembles the full route table. Everything except registration,
// login, and upload serving sits behind the session gate.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	protected := middleware.RequireAuth(s.Store)

	mux.HandleFunc("POST /register", s.Register)
	mux.HandleFunc("POST /login", s.Login)
	mux.HandleFunc("GET /uploads/{filename}", s.ServeUpload)

	mux.Handle("GET /logout", protected(http.HandlerFunc(s.Logout)))
	mux.Handle("GET /stream", protected(http.HandlerFunc(s.GetStream)))
	mux.Handle("POST /stream", protected(http.HandlerFunc(s.CreatePost)))
	mux.Handle("GET /comments/{username}/{postID}", protected(http.HandlerFunc(s.GetComments)))
	mux.Handle("POST /comments/{username}/{postID}", protected(http.HandlerFunc(s.AddComment)))
	mux.Handle("GET /friends", protected(http.HandlerFunc(s.ListFriends)))
	mux.Handle("POST /friends", protected(http.HandlerFunc(s.SendFriendRequest)))
	mux.Handle("POST /handle_friend_request", protected(http.HandlerFunc(s.HandleFriendRequest)))
	mux.Handle("GET /profile", protected(http.HandlerFunc(s.GetProfile)))
	mux.Handle("POST /profile", protected(http.HandlerFunc(s.UpdateProfile)))
	mux.Handle("GET /notify/ws", protected(http.HandlerFunc(s.NotifyWS)))

	return middleware.LogMiddleware(s.Log)(mux)
}

// writeJSON writes v as a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.WithError(err).Error("failed to write response")
	}
}

// storeError maps store sentinel errors to HTTP statuses; anything
// unrecognized is a 500 with the detail kept in the log only.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, database.ErrUsernameTaken):
		http.Error(w, database.ErrUsernameTaken.Error(), http.StatusConflict)
	case errors.Is(err, database.ErrDuplicateRequest):
		http.Error(w, database.ErrDuplicateRequest.Error(), http.StatusConflict)
	case errors.Is(err, database.ErrSelfRequest):
		http.Error(w, database.ErrSelfRequest.Error(), http.StatusBadRequest)
	case errors.Is(err, database.ErrInvalidRequest):
		http.Error(w, database.ErrInvalidRequest.Error(), http.StatusBadRequest)
	default:
		s.Log.WithError(err).Error("store operation failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// publishActivity pushes an activity record if a publisher is configured.
// Failures are logged and otherwise ignored.
func (s *Server) publishActivity(ctx context.Context, actorID uuid.UUID, eventType string, payload map[string]interface{}) {
	if s.Activity == nil {
		return
	}
	if err := s.Activity.Publish(ctx, actorID, eventType, payload); err != nil {
		s.Log.WithError(err).Warn("failed to publish activity record")
	}
}
