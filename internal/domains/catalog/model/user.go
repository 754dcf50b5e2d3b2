package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// User is an account that can log in and perform mutations.
// Users are never modified after creation.
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	FavoriteGenre string    `json:"favoriteGenre" db:"favorite_genre"`
}

// Validate checks the user record before it is persisted
func (u *User) Validate() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Username, validation.Required, validation.Length(MinUsernameLength, MaxNameLength)),
		validation.Field(&u.FavoriteGenre, validation.Required),
	)
}

// Token is the login result handed back to the client
type Token struct {
	Value string `json:"value"`
}

const MinUsernameLength = 3
