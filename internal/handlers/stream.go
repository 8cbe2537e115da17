// internal/handlers/stream.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/middleware"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/notify"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/uploads"
)

const maxUploadBytes = 10 << 20

// GetStream returns the authenticated user's feed: their own posts and
// their friends' posts, newest first.
func (s *Server) GetStream(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	posts, err := s.Store.GetStream(r.Context(), user.ID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, posts)
}

// CreatePost creates a post from a multipart form with a "content" field and
// an optional "image" file. The image extension is validated against the
// allow-list before anything is written.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	content := r.FormValue("content")
	if content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	var image string
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		image, err = s.Uploads.Save(header.Filename, file)
		if err != nil {
			if errors.Is(err, uploads.ErrDisallowedExtension) || errors.Is(err, uploads.ErrBadFilename) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.Log.WithError(err).Error("failed to store upload")
			http.Error(w, "failed to store file", http.StatusInternalServerError)
			return
		}
	case errors.Is(err, http.ErrMissingFile):
		// no image attached
	default:
		http.Error(w, "invalid image field", http.StatusBadRequest)
		return
	}

	post := models.Post{
		UserID:   user.ID,
		Username: user.Username,
		Content:  content,
		Image:    image,
	}
	if err := s.Store.CreatePost(r.Context(), &post); err != nil {
		s.storeError(w, err)
		return
	}

	s.publishActivity(r.Context(), user.ID, models.EventPostCreated, map[string]interface{}{
		"post_id": post.ID.String(),
	})
	s.notifyFriends(r, user.ID, notify.Event{
		Type: notify.EventNewPost,
		Payload: map[string]interface{}{
			"post_id":  post.ID.String(),
			"username": user.Username,
		},
	})

	s.writeJSON(w, http.StatusCreated, post)
}

// notifyFriends pushes an event to every confirmed friend of userID.
func (s *Server) notifyFriends(r *http.Request, userID uuid.UUID, ev notify.Event) {
	friends, err := s.Store.ListFriends(r.Context(), userID)
	if err != nil {
		s.Log.WithError(err).Warn("failed to list friends for notification")
		return
	}
	ids := make([]uuid.UUID, 0, len(friends))
	for _, f := range friends {
		ids = append(ids, f.ID)
	}
	s.Notifier.PushAll(ids, ev)
}

// commentsResponse is the payload of GET /comments/{username}/{postID}.
type commentsResponse struct {
	Post     *models.Post     `json:"post"`
	Comments []models.Comment `json:"comments"`
}

// GetComments returns a post and its comments, newest comment first. The
// username path segment must name an existing user.
func (s *Server) GetComments(w http.ResponseWriter, r *http.Request) {
	post, ok := s.resolvePost(w, r)
	if !ok {
		return
	}

	comments, err := s.Store.GetComments(r.Context(), post.ID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, commentsResponse{Post: post, Comments: comments})
}

// AddComment adds a comment by the authenticated user to the addressed post.
//
// Request payload: { "content": "nice post" }
func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	post, ok := s.resolvePost(w, r)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		UserID:   user.ID,
		Username: user.Username,
		Content:  req.Content,
	}
	if err := s.Store.CreateComment(r.Context(), &comment); err != nil {
		s.storeError(w, err)
		return
	}

	s.publishActivity(r.Context(), user.ID, models.EventCommentAdded, map[string]interface{}{
		"post_id": post.ID.String(),
	})
	if post.UserID != user.ID {
		s.Notifier.Push(post.UserID, notify.Event{
			Type: notify.EventNewComment,
			Payload: map[string]interface{}{
				"post_id":  post.ID.String(),
				"username": user.Username,
			},
		})
	}

	s.writeJSON(w, http.StatusCreated, comment)
}

// resolvePost validates the {username}/{postID} path segments and loads the
// post. A missing user or post is a 404; a malformed id is a 400. On failure
// the response has already been written.
func (s *Server) resolvePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	username := r.PathValue("username")
	if _, err := s.Store.GetUserByUsername(r.Context(), username); err != nil {
		s.storeError(w, err)
		return nil, false
	}

	postID, err := uuid.Parse(r.PathValue("postID"))
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return nil, false
	}

	post, err := s.Store.GetPost(r.Context(), postID)
	if err != nil {
		s.storeError(w, err)
		return nil, false
	}
	return post, true
}

// ServeUpload serves a stored image. The uploads store re-validates the
// filename, so traversal attempts and non-image names never reach the
// filesystem.
func (s *Server) ServeUpload(w http.ResponseWriter, r *http.Request) {
	path, err := s.Uploads.Path(r.PathValue("filename"))
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrBadFilename), errors.Is(err, uploads.ErrDisallowedExtension):
			http.Error(w, "forbidden", http.StatusForbidden)
		case errors.Is(err, os.ErrNotExist):
			http.Error(w, "not found", http.StatusNotFound)
		default:
			s.Log.WithError(err).Error("failed to resolve upload")
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	http.ServeFile(w, r, path)
}
