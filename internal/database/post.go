// internal/database/post.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

// CreatePost inserts a post. Posts are immutable once created.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate post id: %w", err)
		}
		post.ID = id
	}

	q := `
	INSERT INTO posts (id, user_id, content, image)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, post.ID, post.UserID, post.Content, post.Image).
			Scan(&post.CreatedAt)
	})
}

// GetStream returns the posts visible to userID: their own and those of any
// confirmed friend, newest first, each with author username and comment
// count.
func (s *Store) GetStream(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	q := `
	SELECT p.id, p.user_id, u.username, p.content, p.image, p.created_at,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
	FROM posts p
	JOIN users u ON u.id = p.user_id
	WHERE p.user_id = $1
	   OR p.user_id IN (SELECT friend_id FROM friends WHERE user_id = $1)
	ORDER BY p.created_at DESC
	`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

// GetPost fetches a single post with its author username and comment count,
// or ErrNotFound.
func (s *Store) GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	q := `
	SELECT p.id, p.user_id, u.username, p.content, p.image, p.created_at,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
	FROM posts p
	JOIN users u ON u.id = p.user_id
	WHERE p.id = $1
	`
	var p models.Post
	err := s.pool.QueryRow(ctx, q, postID).Scan(
		&p.ID, &p.UserID, &p.Username, &p.Content, &p.Image, &p.CreatedAt, &p.CommentCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPosts(rows pgx.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var p models.Post
		err := rows.Scan(&p.ID, &p.UserID, &p.Username, &p.Content, &p.Image, &p.CreatedAt, &p.CommentCount)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
