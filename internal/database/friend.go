// internal/database/friend.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

// SendFriendRequest creates a pending request from fromUserID to the user
// named toUsername. It fails with ErrNotFound when no such user exists,
// ErrSelfRequest when the target is the sender, and ErrDuplicateRequest when
// a pending request already exists in either direction between the pair.
func (s *Store) SendFriendRequest(ctx context.Context, fromUserID uuid.UUID, toUsername string) (*models.FriendRequest, error) {
	to, err := s.GetUserByUsername(ctx, toUsername)
	if err != nil {
		return nil, err
	}
	if to.ID == fromUserID {
		return nil, ErrSelfRequest
	}

	req := &models.FriendRequest{
		FromUserID: fromUserID,
		ToUserID:   to.ID,
	}
	req.ID, err = uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request id: %w", err)
	}

	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var pending bool
		checkQ := `
		SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE (from_user_id=$1 AND to_user_id=$2)
			   OR (from_user_id=$2 AND to_user_id=$1)
		)
		`
		if err := tx.QueryRow(ctx, checkQ, fromUserID, to.ID).Scan(&pending); err != nil {
			return err
		}
		if pending {
			return ErrDuplicateRequest
		}

		insertQ := `
		INSERT INTO friend_requests (id, from_user_id, to_user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
		`
		return tx.QueryRow(ctx, insertQ, req.ID, fromUserID, to.ID).Scan(&req.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ResolveFriendRequest accepts or declines a pending request. The whole
// resolution runs in one transaction: a crash can never leave a
// one-directional friendship or a stale pending row behind.
//
// ErrInvalidRequest is returned when the request does not exist or is not
// addressed to actingUserID; the acting user must be the recipient, mere
// knowledge of the request id is not enough. On success the resolved request
// is returned so callers know who sent it.
func (s *Store) ResolveFriendRequest(ctx context.Context, requestID, actingUserID uuid.UUID, accept bool) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `SELECT id, from_user_id, to_user_id, created_at FROM friend_requests WHERE id=$1`
		err := tx.QueryRow(ctx, q, requestID).Scan(&req.ID, &req.FromUserID, &req.ToUserID, &req.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidRequest
		}
		if err != nil {
			return err
		}
		if req.ToUserID != actingUserID {
			return ErrInvalidRequest
		}

		if accept {
			// Friendship is a symmetric pair of directed rows; both are
			// inserted or neither is.
			insertQ := `INSERT INTO friends (user_id, friend_id) VALUES ($1, $2)`
			if _, err := tx.Exec(ctx, insertQ, req.ToUserID, req.FromUserID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, insertQ, req.FromUserID, req.ToUserID); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `DELETE FROM friend_requests WHERE id=$1`, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListFriends returns the confirmed friends of userID.
func (s *Store) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	q := `
	SELECT ` + userColumns + `
	FROM friends
	JOIN users ON users.id = friends.friend_id
	WHERE friends.user_id = $1
	`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Password,
			&u.Education, &u.Employment, &u.Music, &u.Movie, &u.Nationality,
			&u.Birthday, &u.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		u.Password = ""
		friends = append(friends, u)
	}
	return friends, rows.Err()
}

// ListFriendRequests returns the pending requests addressed to userID, each
// annotated with the sender's username.
func (s *Store) ListFriendRequests(ctx context.Context, userID uuid.UUID) ([]models.FriendRequest, error) {
	q := `
	SELECT fr.id, fr.from_user_id, fr.to_user_id, fr.created_at, u.username
	FROM friend_requests fr
	JOIN users u ON u.id = fr.from_user_id
	WHERE fr.to_user_id = $1
	ORDER BY fr.created_at
	`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []models.FriendRequest
	for rows.Next() {
		var r models.FriendRequest
		if err := rows.Scan(&r.ID, &r.FromUserID, &r.ToUserID, &r.CreatedAt, &r.FromUsername); err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

// AreFriends reports whether a confirmed friendship edge exists from
// userID to otherID.
func (s *Store) AreFriends(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM friends WHERE user_id=$1 AND friend_id=$2)`
	err := s.pool.QueryRow(ctx, q, userID, otherID).Scan(&exists)
	return exists, err
}
