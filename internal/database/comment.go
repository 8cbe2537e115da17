// internal/database/comment.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

// CreateComment inserts a comment on a post. A missing post yields
// ErrNotFound (foreign key violation).
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate comment id: %w", err)
		}
		comment.ID = id
	}

	q := `
	INSERT INTO comments (id, post_id, user_id, content)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, comment.ID, comment.PostID, comment.UserID, comment.Content).
			Scan(&comment.CreatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// GetComments returns the comments on a post, newest first, each annotated
// with the commenting user's username.
func (s *Store) GetComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	q := `
	SELECT c.id, c.post_id, c.user_id, u.username, c.content, c.created_at
	FROM comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.post_id = $1
	ORDER BY c.created_at DESC
	`
	rows, err := s.pool.Query(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
