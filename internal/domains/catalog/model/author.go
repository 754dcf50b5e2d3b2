package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Author represents a book author.
// Born stays nil until set through EditAuthor.
type Author struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	Born *int      `json:"born" db:"born"`
}

// Validate checks the author record before it is persisted
func (a *Author) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, MaxNameLength)),
	)
}

// AuthorWithBookCount carries the derived bookCount next to the stored record
type AuthorWithBookCount struct {
	Author
	BookCount int
}

const MaxNameLength = 255
