package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookflowapp/bookflow-server/internal/domain"
	"github.com/bookflowapp/bookflow-server/internal/search"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-books",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the authenticated user's library, newest first",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "create-book",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Add book",
		Description: "Adds a book to the authenticated user's library",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-books",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/search",
		Summary:     "Search library",
		Description: "Full-text search over the authenticated user's library",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-book",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-book",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Replaces the book with the submitted draft. Omitted fields reset to their defaults.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-book",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// BookDraft is the client-submitted shape of a book. Every field except the
// title is optional; the server fills in defaults.
type BookDraft struct {
	Title     string    `json:"title" doc:"Book title"`
	Author    string    `json:"author,omitempty" doc:"Author name"`
	Pages     int       `json:"pages,omitempty" doc:"Total page count"`
	ReadPages int       `json:"read_pages,omitempty" doc:"Pages read so far"`
	Notes     string    `json:"notes,omitempty" doc:"Free-form notes"`
	Quotes    []string  `json:"quotes,omitempty" doc:"Saved quotes"`
	CoverURL  string    `json:"cover_url,omitempty" doc:"Cover image URL"`
	AddedAt   time.Time `json:"added_at,omitempty" doc:"When the book was added (defaults to now)"`
}

// BookResponse is a book as returned by the API.
type BookResponse struct {
	ID        string    `json:"id" doc:"Book ID"`
	Title     string    `json:"title" doc:"Book title"`
	Author    string    `json:"author" doc:"Author name"`
	Pages     int       `json:"pages" doc:"Total page count"`
	ReadPages int       `json:"read_pages" doc:"Pages read so far"`
	Notes     string    `json:"notes" doc:"Free-form notes"`
	Quotes    []string  `json:"quotes" doc:"Saved quotes"`
	CoverURL  string    `json:"cover_url" doc:"Cover image URL"`
	AddedAt   time.Time `json:"added_at" doc:"When the book was added"`
	Finished  bool      `json:"finished" doc:"Whether reading progress reached the page count"`
}

// CreateBookInput wraps a draft for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          BookDraft
}

// ListBooksInput carries only auth for Huma.
type ListBooksInput struct {
	Authorization string `header:"Authorization"`
}

// GetBookInput identifies one book.
type GetBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// UpdateBookInput identifies one book and carries the replacement draft.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          BookDraft
}

// SearchBooksInput carries the library search query.
type SearchBooksInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search query"`
	Limit         int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum results"`
	Offset        int    `query:"offset" default:"0" minimum:"0" doc:"Result offset"`
	Sort          string `query:"sort" enum:"relevance,title,recent" default:"relevance" doc:"Sort order"`
}

// BookOutput wraps a single book.
type BookOutput struct {
	Body BookResponse
}

// BookListOutput wraps a list of books.
type BookListOutput struct {
	Body struct {
		Books []BookResponse `json:"books" doc:"Books, newest first"`
		Total int            `json:"total" doc:"Number of books"`
	}
}

// SearchBooksOutput wraps library search results.
type SearchBooksOutput struct {
	Body search.Result
}

func draftFromBody(body BookDraft) domain.NewBook {
	return domain.NewBook{
		Title:     body.Title,
		Author:    body.Author,
		Pages:     body.Pages,
		ReadPages: body.ReadPages,
		Notes:     body.Notes,
		Quotes:    body.Quotes,
		CoverURL:  body.CoverURL,
		AddedAt:   body.AddedAt,
	}
}

func mapBookResponse(book *domain.Book) BookResponse {
	return BookResponse{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		Pages:     book.Pages,
		ReadPages: book.ReadPages,
		Notes:     book.Notes,
		Quotes:    book.Quotes,
		CoverURL:  book.CoverURL,
		AddedAt:   book.AddedAt,
		Finished:  book.IsFinished(),
	}
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Book.ListBooks(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	out := &BookListOutput{}
	out.Body.Books = make([]BookResponse, len(books))
	for i := range books {
		out.Body.Books[i] = mapBookResponse(&books[i])
	}
	out.Body.Total = len(books)
	return out, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.CreateBook(ctx, user.ID, draftFromBody(input.Body))
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.GetBook(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.UpdateBook(ctx, user.ID, input.ID, draftFromBody(input.Body))
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *GetBookInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Book.DeleteBook(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	params := search.DefaultParams()
	params.Query = input.Query
	params.Limit = input.Limit
	params.Offset = input.Offset
	params.SortBy = input.Sort

	result, err := s.services.Book.SearchLibrary(ctx, user.ID, params)
	if err != nil {
		return nil, err
	}

	return &SearchBooksOutput{Body: *result}, nil
}
