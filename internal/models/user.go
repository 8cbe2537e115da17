package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Password  string    `json:"-"`

	// Optional profile attributes, empty until set on the profile page.
	Education   string `json:"education,omitempty"`
	Employment  string `json:"employment,omitempty"`
	Music       string `json:"music,omitempty"`
	Movie       string `json:"movie,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Birthday    string `json:"birthday,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Profile holds the mutable profile attributes of a user.
type Profile struct {
	Education   string `json:"education"`
	Employment  string `json:"employment"`
	Music       string `json:"music"`
	Movie       string `json:"movie"`
	Nationality string `json:"nationality"`
	Birthday    string `json:"birthday"`
}
