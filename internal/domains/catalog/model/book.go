package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Book is a persisted book record. AuthorID references an Author.
type Book struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Published int       `json:"published" db:"published"`
	Genres    []string  `json:"genres" db:"genres"`
	AuthorID  uuid.UUID `json:"author" db:"author_id"`
}

// Validate checks the required fields of a book before it is persisted
func (b *Book) Validate() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.Title, validation.Required),
		validation.Field(&b.Genres, validation.Required, validation.Each(validation.Required)),
		validation.Field(&b.AuthorID, validation.By(notNilUUID)),
	)
}

// BookWithAuthor is a book joined with its author record
type BookWithAuthor struct {
	Book
	Author Author
}

// HasGenre reports whether genre is one of the book's genres (exact match).
func (b *Book) HasGenre(genre string) bool {
	for _, g := range b.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// BookFilter selects books for AllBooks. Nil fields do not constrain the result.
type BookFilter struct {
	Author *string
	Genre  *string
}

// Matches applies the filter to a joined book. Both conditions are ANDed.
func (f BookFilter) Matches(b *BookWithAuthor) bool {
	if f.Author != nil && b.Author.Name != *f.Author {
		return false
	}
	if f.Genre != nil && !b.HasGenre(*f.Genre) {
		return false
	}
	return true
}

func notNilUUID(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("validation_nil_uuid", "must reference an existing record")
	}
	return nil
}
