package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bookflowapp/bookflow-server/internal/catalog"
	"github.com/bookflowapp/bookflow-server/internal/domain"
	"github.com/bookflowapp/bookflow-server/internal/search"
	"github.com/bookflowapp/bookflow-server/internal/store"
)

// BookService exposes the owner-scoped book operations. Every method takes
// the acting user's ID; nothing here guesses identity from ambient state.
//
// The search index is kept up to date on a best-effort basis: an index
// failure is logged and the write still succeeds, since the store is the
// source of truth and the index can always be rebuilt.
type BookService struct {
	store       *store.Store
	searchIndex *search.Index
	logger      *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, searchIndex *search.Index, logger *slog.Logger) *BookService {
	return &BookService{
		store:       store,
		searchIndex: searchIndex,
		logger:      logger,
	}
}

// ListBooks returns the user's library, newest first.
func (s *BookService) ListBooks(ctx context.Context, ownerID string) ([]domain.Book, error) {
	return s.store.ListBooks(ctx, ownerID)
}

// GetBook returns a single book from the user's library.
func (s *BookService) GetBook(ctx context.Context, ownerID, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, ownerID, bookID)
}

// CreateBook adds a draft to the user's library.
func (s *BookService) CreateBook(ctx context.Context, ownerID string, draft domain.NewBook) (*domain.Book, error) {
	book, err := s.store.CreateBook(ctx, ownerID, draft)
	if err != nil {
		return nil, err
	}

	s.indexBook(book)
	return book, nil
}

// UpdateBook overwrites a book in the user's library with the draft.
func (s *BookService) UpdateBook(ctx context.Context, ownerID, bookID string, draft domain.NewBook) (*domain.Book, error) {
	book, err := s.store.UpdateBook(ctx, ownerID, bookID, draft)
	if err != nil {
		return nil, err
	}

	s.indexBook(book)
	return book, nil
}

// DeleteBook removes a book from the user's library.
func (s *BookService) DeleteBook(ctx context.Context, ownerID, bookID string) error {
	if err := s.store.DeleteBook(ctx, ownerID, bookID); err != nil {
		return err
	}

	if s.searchIndex != nil {
		if err := s.searchIndex.DeleteBook(bookID); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove book from search index",
				"book_id", bookID,
				"error", err,
			)
		}
	}
	return nil
}

// SearchLibrary runs a full-text search over the user's library.
func (s *BookService) SearchLibrary(ctx context.Context, ownerID string, params search.Params) (*search.Result, error) {
	return s.searchIndex.Search(ctx, ownerID, params)
}

// ImportVolume adds a catalog search result to the user's library. Catalog
// fields map onto a draft; reading progress starts at zero and missing
// fields pick up the usual defaults.
func (s *BookService) ImportVolume(ctx context.Context, ownerID string, volume catalog.Volume) (*domain.Book, error) {
	draft := domain.NewBook{
		Title:    volume.Title,
		Author:   strings.Join(volume.Authors, ", "),
		Pages:    volume.PageCount,
		CoverURL: volume.CoverURL,
	}

	return s.CreateBook(ctx, ownerID, draft)
}

// ReindexLibrary rebuilds the search index from the store. Used after
// mapping changes or index corruption.
func (s *BookService) ReindexLibrary(ctx context.Context) (int, error) {
	if err := s.searchIndex.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	books, err := s.store.ListAllBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}

	docs := make([]*search.BookDocument, len(books))
	for i := range books {
		docs[i] = search.FromBook(&books[i])
	}
	if err := s.searchIndex.IndexBooks(docs); err != nil {
		return 0, fmt.Errorf("index books: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("reindexed library", "count", len(docs))
	}
	return len(docs), nil
}

func (s *BookService) indexBook(book *domain.Book) {
	if s.searchIndex == nil {
		return
	}
	if err := s.searchIndex.IndexBook(search.FromBook(book)); err != nil && s.logger != nil {
		s.logger.Warn("failed to index book",
			"book_id", book.ID,
			"error", err,
		)
	}
}
