package domain

import "time"

type User struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Avatar       *string   `db:"avatar"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Actor is the authenticated principal a service call is made on behalf of.
type Actor struct {
	ID int64
}

// ProfileUpdate holds the optional fields of a profile update. A nil field
// keeps the stored value.
type ProfileUpdate struct {
	Name   *string
	Email  *string
	Avatar *Upload
}
