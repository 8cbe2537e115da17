// internal/handlers/user.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/auth"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/middleware"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

type registerRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Register creates a new user account.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.FirstName == "" || req.LastName == "" || req.Password == "" {
		http.Error(w, "username, first_name, last_name and password are required", http.StatusBadRequest)
		return
	}

	user := models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}

	if err := s.Store.CreateUser(r.Context(), &user); err != nil {
		s.storeError(w, err)
		return
	}

	s.publishActivity(r.Context(), user.ID, models.EventUserRegistered, map[string]interface{}{
		"username": user.Username,
	})

	s.writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login checks the credentials and issues the session token, both in the
// response body and as an HttpOnly cookie. Every failure mode collapses to
// the same generic 403.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	token, err := s.Store.AuthenticateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		s.Log.WithError(err).WithField("username", req.Username).Info("failed login attempt")
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
		MaxAge:   auth.TOKEN_EXPIRE_TIME_SEC,
	})

	s.writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// Logout expires the session cookie.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		MaxAge:   -1,
	})
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// GetProfile returns the authenticated user's record.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	s.writeJSON(w, http.StatusOK, user)
}

// UpdateProfile replaces the authenticated user's profile attributes.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := s.Store.UpdateProfile(r.Context(), user.ID, p); err != nil {
		s.storeError(w, err)
		return
	}

	s.publishActivity(r.Context(), user.ID, models.EventProfileUpdated, nil)

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}
