package service

import (
	"catalog-backend/internal/domains/catalog/model"

	"github.com/google/uuid"
)

// BookCount counts the books whose author reference is author.ID
func BookCount(author *model.Author, books []model.Book) int {
	n := 0
	for i := range books {
		if books[i].AuthorID == author.ID {
			n++
		}
	}
	return n
}

// bookCountsByAuthor indexes the book set in one pass. Looking an author up in
// the result gives the same number as BookCount.
func bookCountsByAuthor(books []model.Book) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int, len(books))
	for i := range books {
		counts[books[i].AuthorID]++
	}
	return counts
}

// withBookCounts annotates authors with their book counts
func withBookCounts(authors []model.Author, books []model.Book) []model.AuthorWithBookCount {
	counts := bookCountsByAuthor(books)

	result := make([]model.AuthorWithBookCount, len(authors))
	for i, a := range authors {
		result[i] = model.AuthorWithBookCount{Author: a, BookCount: counts[a.ID]}
	}
	return result
}
