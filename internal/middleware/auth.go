// internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/auth"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

// IdentityStore resolves an authenticated user id to a full user record.
// The persistence gateway implements it.
type IdentityStore interface {
	LoadUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type contextKey struct{}

var userKey contextKey

// UserFrom returns the authenticated user stored in the request context by
// RequireAuth, or nil.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// RequireAuth is the session gate. It resolves the auth_token cookie to a
// user and stores it in the request context; anything unauthenticated gets
// 401 before the protected handler runs. The decision is binary per request:
// either a valid token naming an existing user, or a rejection.
func RequireAuth(store IdentityStore) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := Authenticate(r, store)
			if err != nil {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// Authenticate resolves the session cookie on r to a user record.
func Authenticate(r *http.Request, store IdentityStore) (*models.User, error) {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		return nil, err
	}

	userIDStr, err := auth.AuthenticateSessionToken(cookie.Value)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	return store.LoadUserByID(r.Context(), userID)
}
