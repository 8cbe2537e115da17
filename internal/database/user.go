package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/auth"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

const userColumns = `id, username, first_name, last_name, password,
	education, employment, music, movie, nationality, birthday, created_at`

// CreateUser hashes the user's password and inserts the row. A duplicate
// username yields ErrUsernameTaken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}

	hash, err := auth.CreateHash(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	q := `INSERT INTO users (id, username, first_name, last_name, password)
	      VALUES ($1, $2, $3, $4, $5)`

	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			user.ID, user.Username, user.FirstName, user.LastName, user.Password,
		)
		return execErr
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return s.scanUser(s.pool.QueryRow(ctx, q, username))
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return s.scanUser(s.pool.QueryRow(ctx, q, id))
}

// LoadUserByID implements the identity-store contract used by the session
// gate; it is GetUserByID under the interface's name.
func (s *Store) LoadUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.GetUserByID(ctx, id)
}

func (s *Store) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Password,
		&u.Education, &u.Employment, &u.Music, &u.Movie, &u.Nationality,
		&u.Birthday, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AuthenticateUser checks the credentials and returns a signed session token.
// Any failure, including a malformed stored hash, surfaces as the same
// generic error.
func (s *Store) AuthenticateUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("user not found or db error: %w", err)
	}

	if !auth.VerifyPassword(password, user.Password) {
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := auth.CreateSessionToken(user.ID.String())
	if err != nil {
		return "", fmt.Errorf("failed to create session token: %w", err)
	}

	return token, nil
}

// UpdateProfile replaces the user's optional profile attributes.
func (s *Store) UpdateProfile(ctx context.Context, userID uuid.UUID, p models.Profile) error {
	q := `
	UPDATE users
	SET education=$1, employment=$2, music=$3, movie=$4, nationality=$5, birthday=$6
	WHERE id=$7
	`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q,
			p.Education, p.Employment, p.Music, p.Movie, p.Nationality, p.Birthday,
			userID,
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
