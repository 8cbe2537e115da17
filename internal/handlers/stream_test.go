// internal/handlers/stream_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

// postMultipart submits a post with an optional attached image.
func postMultipart(t *testing.T, routes http.Handler, cookie *http.Cookie, content, filename string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("content", content))
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/stream", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)
	return w
}

// TestStreamFlow: alice posts; bob sees nothing until they are friends, then
// sees alice's post newest first.
func TestStreamFlow(t *testing.T) {
	_, routes := testServer(t)

	alice, aliceCookie := registerAndLogin(t, routes, "alice")
	_, bobCookie := registerAndLogin(t, routes, "bob")

	w := postMultipart(t, routes, aliceCookie, "hello", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	require.Equal(t, "hello", post.Content)

	// Not friends yet: bob's stream has no post of alice's.
	w = doJSON(t, routes, "GET", "/stream", "", bobCookie)
	require.Equal(t, http.StatusOK, w.Code)
	var bobStream []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bobStream))
	for _, p := range bobStream {
		require.NotEqual(t, post.ID, p.ID)
	}

	// Become friends.
	w = doJSON(t, routes, "POST", "/friends", fmt.Sprintf(`{"username":%q}`, alice.Username), bobCookie)
	require.Equal(t, http.StatusCreated, w.Code)
	var fr models.FriendRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fr))
	w = doJSON(t, routes, "POST", "/handle_friend_request",
		fmt.Sprintf(`{"request_id":%q,"action":"accept"}`, fr.ID), aliceCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, routes, "GET", "/stream", "", bobCookie)
	require.Equal(t, http.StatusOK, w.Code)
	bobStream = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bobStream))
	found := false
	for _, p := range bobStream {
		if p.ID == post.ID {
			found = true
			require.Equal(t, alice.Username, p.Username)
		}
	}
	require.True(t, found, "friend's post missing from stream")
}

func TestCreatePostValidation(t *testing.T) {
	_, routes := testServer(t)

	_, cookie := registerAndLogin(t, routes, "alice")

	// Missing content.
	w := postMultipart(t, routes, cookie, "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Disallowed image extension, nothing may be written or inserted.
	w = postMultipart(t, routes, cookie, "with attachment", "payload.exe")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Allowed extension passes and the stored name round-trips.
	w = postMultipart(t, routes, cookie, "with image", "selfie.png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	require.Equal(t, "selfie.png", post.Image)

	req := httptest.NewRequest("GET", "/uploads/selfie.png", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "fake image bytes", rec.Body.String())
}

func TestCommentsFlow(t *testing.T) {
	_, routes := testServer(t)

	alice, aliceCookie := registerAndLogin(t, routes, "alice")
	_, bobCookie := registerAndLogin(t, routes, "bob")

	w := postMultipart(t, routes, aliceCookie, "discuss", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))

	path := fmt.Sprintf("/comments/%s/%s", alice.Username, post.ID)

	w = doJSON(t, routes, "POST", path, `{"content":"nice"}`, bobCookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, routes, "GET", path, "", bobCookie)
	require.Equal(t, http.StatusOK, w.Code)
	var resp commentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, post.ID, resp.Post.ID)
	require.Len(t, resp.Comments, 1)
	require.Equal(t, "nice", resp.Comments[0].Content)

	// Unknown username in the path is a 404.
	w = doJSON(t, routes, "GET", fmt.Sprintf("/comments/no_such_user/%s", post.ID), "", bobCookie)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Empty comment is rejected.
	w = doJSON(t, routes, "POST", path, `{"content":""}`, bobCookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileFlow(t *testing.T) {
	_, routes := testServer(t)

	user, cookie := registerAndLogin(t, routes, "alice")

	w := doJSON(t, routes, "POST", "/profile",
		`{"education":"UiS","employment":"Student","music":"Pop","movie":"Heat","nationality":"Norwegian","birthday":"2000-01-02"}`,
		cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, routes, "GET", "/profile", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, user.Username, got.Username)
	require.Equal(t, "UiS", got.Education)
	require.Equal(t, "2000-01-02", got.Birthday)
}

func TestLogoutClearsCookie(t *testing.T) {
	_, routes := testServer(t)

	_, cookie := registerAndLogin(t, routes, "alice")

	req := httptest.NewRequest("GET", "/logout", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == cookie.Name && c.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared, "logout did not expire the session cookie")
}
