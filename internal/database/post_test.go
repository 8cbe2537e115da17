// internal/database/post_test.go
package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

func makeFriends(t *testing.T, store *Store, a, b *models.User) {
	t.Helper()
	ctx := context.Background()

	req, err := store.SendFriendRequest(ctx, a.ID, b.Username)
	require.NoError(t, err)
	_, err = store.ResolveFriendRequest(ctx, req.ID, b.ID, true)
	require.NoError(t, err)
}

func streamHasPost(posts []models.Post, id uuid.UUID) bool {
	for _, p := range posts {
		if p.ID == id {
			return true
		}
	}
	return false
}

// A post is visible to the author immediately and to another user only once
// they are friends.
func TestStreamVisibility(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	post := &models.Post{UserID: alice.ID, Content: "hello"}
	require.NoError(t, store.CreatePost(ctx, post))

	own, err := store.GetStream(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, streamHasPost(own, post.ID))

	before, err := store.GetStream(ctx, bob.ID)
	require.NoError(t, err)
	require.False(t, streamHasPost(before, post.ID), "stranger sees the post")

	makeFriends(t, store, alice, bob)

	after, err := store.GetStream(ctx, bob.ID)
	require.NoError(t, err)
	require.True(t, streamHasPost(after, post.ID), "friend cannot see the post")
}

func TestStreamNewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")

	for _, content := range []string{"first", "second", "third"} {
		require.NoError(t, store.CreatePost(ctx, &models.Post{UserID: alice.ID, Content: content}))
		time.Sleep(10 * time.Millisecond)
	}

	posts, err := store.GetStream(ctx, alice.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(posts), 3)
	for i := 1; i < len(posts); i++ {
		require.False(t, posts[i-1].CreatedAt.Before(posts[i].CreatedAt),
			"posts not ordered newest first at index %d", i)
	}
}

func TestCommentsCountAndOrdering(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")
	makeFriends(t, store, alice, bob)

	post := &models.Post{UserID: alice.ID, Content: "discuss"}
	require.NoError(t, store.CreatePost(ctx, post))

	for _, content := range []string{"one", "two"} {
		c := &models.Comment{PostID: post.ID, UserID: bob.ID, Content: content}
		require.NoError(t, store.CreateComment(ctx, c))
		time.Sleep(10 * time.Millisecond)
	}

	got, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.CommentCount)
	require.Equal(t, alice.Username, got.Username)

	comments, err := store.GetComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "two", comments[0].Content, "comments not newest first")
	require.Equal(t, bob.Username, comments[0].Username)
}

func TestCommentOnMissingPost(t *testing.T) {
	store := testStore(t)

	bob := createTestUser(t, store, "bob")
	c := &models.Comment{PostID: uuid.New(), UserID: bob.ID, Content: "ghost"}
	err := store.CreateComment(context.Background(), c)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetPostMissing(t *testing.T) {
	store := testStore(t)

	_, err := store.GetPost(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
