package domain

import (
	"strings"
	"time"
)

// Placeholder values substituted for missing book fields.
const (
	PlaceholderTitle = "Untitled"
	UnknownAuthor    = "Unknown Author"
)

// NewBook is an unvalidated draft of a book as submitted by a client or
// produced by a catalog import. It carries no identity: ID and OwnerID are
// assigned by the store and the record access layer, never by callers.
type NewBook struct {
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Pages     int       `json:"pages"`
	ReadPages int       `json:"read_pages"`
	Notes     string    `json:"notes"`
	Quotes    []string  `json:"quotes"`
	CoverURL  string    `json:"cover_url"`
	AddedAt   time.Time `json:"added_at"`
}

// Book is a persisted book record. Every stored document has the full field
// set (no absent fields), a store-assigned ID, and the owner's user ID.
type Book struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Pages     int       `json:"pages"`
	ReadPages int       `json:"read_pages"`
	Notes     string    `json:"notes"`
	Quotes    []string  `json:"quotes"`
	CoverURL  string    `json:"cover_url"`
	AddedAt   time.Time `json:"added_at"`
}

// IsFinished reports whether reading progress has reached the page count.
// Books with an unknown page count are never finished.
func (b *Book) IsFinished() bool {
	return b.Pages > 0 && b.ReadPages >= b.Pages
}

// NormalizeDraft converts a draft into the exact field set that gets
// persisted, applying the defaulting policy for every optional field.
// This is the only conversion path from NewBook to Book; ID and OwnerID
// are left empty for the store to assign.
func NormalizeDraft(d NewBook, now time.Time) Book {
	b := Book{
		Title:     d.Title,
		Author:    d.Author,
		Pages:     d.Pages,
		ReadPages: d.ReadPages,
		Notes:     d.Notes,
		Quotes:    d.Quotes,
		CoverURL:  d.CoverURL,
		AddedAt:   d.AddedAt,
	}
	b.Normalize(now)
	return b
}

// Normalize applies the defaulting policy in place. It is used on every
// write and on every read back from the store, so documents written before
// a field existed always deserialize with the full field set. Applying it
// twice yields the same value.
func (b *Book) Normalize(now time.Time) {
	if strings.TrimSpace(b.Title) == "" {
		b.Title = PlaceholderTitle
	}
	if strings.TrimSpace(b.Author) == "" {
		b.Author = UnknownAuthor
	}
	if b.Pages < 0 {
		b.Pages = 0
	}
	if b.ReadPages < 0 {
		b.ReadPages = 0
	}
	if b.Quotes == nil {
		b.Quotes = []string{}
	}
	if b.AddedAt.IsZero() {
		b.AddedAt = now
	}
}
