package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookflowapp/bookflow-server/internal/domain"
	"github.com/bookflowapp/bookflow-server/internal/id"
)

// Book documents live under two key families:
//
//	book:<bookID>               the JSON document
//	bookowner:<ownerID>:<bookID> owner index, value is the book ID
//
// Every operation here takes the owner explicitly. There is no ambient
// notion of "the current user" at this layer; handlers resolve identity and
// pass it down.

const (
	bookPrefix      = "book:"
	bookOwnerPrefix = "bookowner:"
)

func bookKey(bookID string) []byte {
	return []byte(bookPrefix + bookID)
}

func bookOwnerKey(ownerID, bookID string) []byte {
	return []byte(bookOwnerPrefix + ownerID + ":" + bookID)
}

// CreateBook persists a draft as a new document owned by ownerID. The store
// assigns the ID and applies the field defaulting policy, so any identity
// carried by the draft is discarded. Returns the stored document.
func (s *Store) CreateBook(ctx context.Context, ownerID string, draft domain.NewBook) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	book := domain.NormalizeDraft(draft, time.Now().UTC())
	book.ID = id.MustGenerate("book")
	book.OwnerID = ownerID

	data, err := json.Marshal(&book)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal book: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(bookKey(book.ID), data); err != nil {
			return fmt.Errorf("failed to set book key: %w", err)
		}
		if err := txn.Set(bookOwnerKey(ownerID, book.ID), []byte(book.ID)); err != nil {
			return fmt.Errorf("failed to set owner index: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// GetBook retrieves a single book owned by ownerID. A book owned by someone
// else is reported as not found so reads never reveal other users' records.
func (s *Store) GetBook(ctx context.Context, ownerID, bookID string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if bookID == "" {
		return nil, ErrMissingID
	}

	var book domain.Book
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bookKey(bookID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &book)
		})
	})
	if err != nil {
		return nil, err
	}

	if book.OwnerID != ownerID {
		return nil, ErrBookNotFound
	}

	book.Normalize(time.Now().UTC())
	return &book, nil
}

// ListBooks returns every book owned by ownerID, newest first. Documents
// written before a field existed come back with the full field set.
func (s *Store) ListBooks(ctx context.Context, ownerID string) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	prefix := []byte(bookOwnerPrefix + ownerID + ":")
	now := time.Now().UTC()
	books := []domain.Book{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var bookID string
			err := it.Item().Value(func(val []byte) error {
				bookID = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			item, err := txn.Get(bookKey(bookID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Dangling index entry, skip
				if s.logger != nil {
					s.logger.Warn("owner index points at missing book", "book_id", bookID, "owner_id", ownerID)
				}
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to get book: %w", err)
			}

			var book domain.Book
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			})
			if err != nil {
				return err
			}

			book.Normalize(now)
			books = append(books, book)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(books, func(i, j int) bool {
		return books[i].AddedAt.After(books[j].AddedAt)
	})

	return books, nil
}

// UpdateBook overwrites a book document with a fully normalized version of
// the given draft, keeping the book's ID and owner. The target must already
// exist and belong to ownerID; a missing or foreign document is an
// authorization failure, not a signal to create anything.
func (s *Store) UpdateBook(ctx context.Context, ownerID, bookID string, draft domain.NewBook) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if bookID == "" {
		return nil, ErrMissingID
	}

	book := domain.NormalizeDraft(draft, time.Now().UTC())
	book.ID = bookID
	book.OwnerID = ownerID

	data, err := json.Marshal(&book)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal book: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(bookKey(bookID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotOwner
		}
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}

		var existing domain.Book
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &existing)
		})
		if err != nil {
			return err
		}
		if existing.OwnerID != ownerID {
			return ErrNotOwner
		}

		if err := txn.Set(bookKey(bookID), data); err != nil {
			return fmt.Errorf("failed to set book key: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// DeleteBook removes a book owned by ownerID. A missing document fails
// cleanly with ErrBookNotFound; a document owned by someone else is refused.
func (s *Store) DeleteBook(ctx context.Context, ownerID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ownerID == "" {
		return ErrMissingOwner
	}
	if bookID == "" {
		return ErrMissingID
	}

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(bookKey(bookID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}

		var existing domain.Book
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &existing)
		})
		if err != nil {
			return err
		}
		if existing.OwnerID != ownerID {
			return ErrNotOwner
		}

		if err := txn.Delete(bookKey(bookID)); err != nil {
			return fmt.Errorf("failed to delete book key: %w", err)
		}
		if err := txn.Delete(bookOwnerKey(ownerID, bookID)); err != nil {
			return fmt.Errorf("failed to delete owner index: %w", err)
		}
		return nil
	})
}

// ListAllBooks returns every book document regardless of owner. Used for
// maintenance work like search reindexing, never by request handlers.
func (s *Store) ListAllBooks(ctx context.Context) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	books := []domain.Book{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(bookPrefix)); it.ValidForPrefix([]byte(bookPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var book domain.Book
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			})
			if err != nil {
				return err
			}

			book.Normalize(now)
			books = append(books, book)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

// AdoptOrphanBooks assigns ownerID to every book document that has no owner.
// Such documents predate owner scoping and are unreachable through the
// normal operations until adopted. Returns the number of books claimed.
func (s *Store) AdoptOrphanBooks(ctx context.Context, ownerID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if ownerID == "" {
		return 0, ErrMissingOwner
	}

	adopted := 0
	now := time.Now().UTC()

	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(bookPrefix)); it.ValidForPrefix([]byte(bookPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var book domain.Book
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			})
			if err != nil {
				return err
			}
			if book.OwnerID != "" {
				continue
			}

			book.OwnerID = ownerID
			book.Normalize(now)

			data, err := json.Marshal(&book)
			if err != nil {
				return fmt.Errorf("failed to marshal book: %w", err)
			}
			if err := txn.Set(bookKey(book.ID), data); err != nil {
				return fmt.Errorf("failed to set book key: %w", err)
			}
			if err := txn.Set(bookOwnerKey(ownerID, book.ID), []byte(book.ID)); err != nil {
				return fmt.Errorf("failed to set owner index: %w", err)
			}
			adopted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if adopted > 0 && s.logger != nil {
		s.logger.Info("adopted orphan books", "owner_id", ownerID, "count", adopted)
	}

	return adopted, nil
}
