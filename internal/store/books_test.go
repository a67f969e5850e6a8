package store

import (
	"context"
	"encoding/json/v2"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookflowapp/bookflow-server/internal/domain"
)

func TestCreateBook_AssignsIdentity(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book, err := s.CreateBook(ctx, "user-1", domain.NewBook{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(book.ID, "book-"))
	assert.Equal(t, "user-1", book.OwnerID)
	assert.Equal(t, []string{}, book.Quotes)
	assert.False(t, book.AddedAt.IsZero())
}

func TestCreateBook_RequiresOwner(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreateBook(context.Background(), "", domain.NewBook{Title: "Dune"})
	assert.ErrorIs(t, err, ErrMissingOwner)
}

func TestGetBook_ScopedToOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book, err := s.CreateBook(ctx, "user-1", domain.NewBook{Title: "Dune"})
	require.NoError(t, err)

	got, err := s.GetBook(ctx, "user-1", book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)

	// Another user cannot even learn the book exists.
	_, err = s.GetBook(ctx, "user-2", book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListBooks_OnlyOwnersBooks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.CreateBook(ctx, "user-1", domain.NewBook{Title: "Mine"})
	require.NoError(t, err)
	_, err = s.CreateBook(ctx, "user-2", domain.NewBook{Title: "Theirs"})
	require.NoError(t, err)

	books, err := s.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Mine", books[0].Title)

	empty, err := s.ListBooks(ctx, "user-3")
	require.NoError(t, err)
	assert.Equal(t, []domain.Book{}, empty)
}

func TestListBooks_NewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	t3 := t2.Add(24 * time.Hour)

	for _, b := range []domain.NewBook{
		{Title: "middle", AddedAt: t2},
		{Title: "oldest", AddedAt: t1},
		{Title: "newest", AddedAt: t3},
	} {
		_, err := s.CreateBook(ctx, "user-1", b)
		require.NoError(t, err)
	}

	books, err := s.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "newest", books[0].Title)
	assert.Equal(t, "middle", books[1].Title)
	assert.Equal(t, "oldest", books[2].Title)
}

func TestUpdateBook_FullOverwrite(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book, err := s.CreateBook(ctx, "user-1", domain.NewBook{
		Title: "Dune", Notes: "great so far", Quotes: []string{"fear is the mind-killer"},
	})
	require.NoError(t, err)

	// A draft omitting notes and quotes resets them to their defaults.
	updated, err := s.UpdateBook(ctx, "user-1", book.ID, domain.NewBook{
		Title: "Dune", Author: "Frank Herbert", Pages: 412, ReadPages: 412,
	})
	require.NoError(t, err)

	assert.Equal(t, book.ID, updated.ID)
	assert.Equal(t, "user-1", updated.OwnerID)
	assert.Equal(t, "", updated.Notes)
	assert.Equal(t, []string{}, updated.Quotes)
	assert.True(t, updated.IsFinished())

	got, err := s.GetBook(ctx, "user-1", book.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Notes)
}

func TestUpdateBook_MissingOrForeign(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Updating a nonexistent document is refused, never an upsert.
	_, err := s.UpdateBook(ctx, "user-1", "book-missing", domain.NewBook{Title: "x"})
	assert.ErrorIs(t, err, ErrNotOwner)

	book, err := s.CreateBook(ctx, "user-1", domain.NewBook{Title: "Dune"})
	require.NoError(t, err)

	_, err = s.UpdateBook(ctx, "user-2", book.ID, domain.NewBook{Title: "hijacked"})
	assert.ErrorIs(t, err, ErrNotOwner)

	got, err := s.GetBook(ctx, "user-1", book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title, "a refused update must leave the document intact")
}

func TestUpdateBook_RequiresID(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.UpdateBook(context.Background(), "user-1", "", domain.NewBook{Title: "x"})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestDeleteBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book, err := s.CreateBook(ctx, "user-1", domain.NewBook{Title: "Dune"})
	require.NoError(t, err)

	err = s.DeleteBook(ctx, "user-2", book.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, s.DeleteBook(ctx, "user-1", book.ID))

	_, err = s.GetBook(ctx, "user-1", book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	err = s.DeleteBook(ctx, "user-1", book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound, "deleting twice must fail cleanly")

	books, err := s.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestListBooks_NormalizesLegacyDocuments(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// A document written before quotes and read progress existed.
	legacy := map[string]any{
		"id":       "book-legacy",
		"owner_id": "user-1",
		"title":    "Old Record",
		"added_at": time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	writeRawBook(t, s, "book-legacy", legacy)
	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(bookOwnerKey("user-1", "book-legacy"), []byte("book-legacy"))
	}))

	books, err := s.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, books, 1)

	b := books[0]
	assert.Equal(t, domain.UnknownAuthor, b.Author)
	assert.Equal(t, 0, b.ReadPages)
	assert.Equal(t, []string{}, b.Quotes)
	assert.Equal(t, "", b.Notes)
}

func TestAdoptOrphanBooks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	writeRawBook(t, s, "book-orphan", map[string]any{
		"id":    "book-orphan",
		"title": "Ownerless",
	})

	owned, err := s.CreateBook(ctx, "user-2", domain.NewBook{Title: "Owned"})
	require.NoError(t, err)

	adopted, err := s.AdoptOrphanBooks(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, adopted)

	books, err := s.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Ownerless", books[0].Title)

	// Owned books are untouched.
	got, err := s.GetBook(ctx, "user-2", owned.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-2", got.OwnerID)

	// Second run finds nothing left to claim.
	adopted, err = s.AdoptOrphanBooks(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, adopted)
}

func writeRawBook(t *testing.T, s *Store, bookID string, doc map[string]any) {
	t.Helper()

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(bookKey(bookID), data)
	}))
}
