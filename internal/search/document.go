// Package search provides full-text search over a user's library using
// Bleve. Queries match titles, authors, and notes, and every query is
// constrained to a single owner so one user's results never surface
// another's books.
package search

import (
	"github.com/bookflowapp/bookflow-server/internal/domain"
)

// BookDocument is the indexed representation of a book.
type BookDocument struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Notes   string `json:"notes"`
	AddedAt int64  `json:"added_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve indexes Go struct field names as written, but the mapping declares
// lowercase names, so we convert explicitly.
func (d *BookDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":       d.ID,
		"owner_id": d.OwnerID,
		"title":    d.Title,
		"added_at": d.AddedAt,
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Notes != "" {
		m["notes"] = d.Notes
	}
	return m
}

// FromBook converts a stored book into its indexed form.
func FromBook(book *domain.Book) *BookDocument {
	return &BookDocument{
		ID:      book.ID,
		OwnerID: book.OwnerID,
		Title:   book.Title,
		Author:  book.Author,
		Notes:   book.Notes,
		AddedAt: book.AddedAt.UnixMilli(),
	}
}
