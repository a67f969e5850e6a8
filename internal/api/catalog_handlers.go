package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookflowapp/bookflow-server/internal/catalog"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search-catalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search catalog",
		Description: "Searches the external book catalog. Provider failures return an empty result set.",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "import-book",
		Method:      http.MethodPost,
		Path:        "/api/v1/catalog/import",
		Summary:     "Import book from catalog",
		Description: "Adds a catalog search result to the authenticated user's library",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleImportBook)
}

// === DTOs ===

// SearchCatalogInput carries the catalog search query.
type SearchCatalogInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search query"`
}

// SearchCatalogOutput wraps catalog search results.
type SearchCatalogOutput struct {
	Body struct {
		Volumes []catalog.Volume `json:"volumes" doc:"Matching catalog volumes"`
		Total   int              `json:"total" doc:"Number of results"`
	}
}

// ImportBookInput wraps a catalog volume to import.
type ImportBookInput struct {
	Authorization string `header:"Authorization"`
	Body          catalog.Volume
}

// === Handlers ===

func (s *Server) handleSearchCatalog(ctx context.Context, input *SearchCatalogInput) (*SearchCatalogOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	volumes := s.services.Catalog.Search(ctx, input.Query)

	out := &SearchCatalogOutput{}
	out.Body.Volumes = volumes
	out.Body.Total = len(volumes)
	return out, nil
}

func (s *Server) handleImportBook(ctx context.Context, input *ImportBookInput) (*BookOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.ImportVolume(ctx, user.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}
