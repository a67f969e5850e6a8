package service

import (
	"context"
	"log/slog"

	"github.com/bookflowapp/bookflow-server/internal/catalog"
)

// CatalogService wraps the external catalog client. Provider failures are
// absorbed here: a broken upstream degrades catalog search to empty results
// instead of failing the request, while the user's own library stays fully
// functional either way.
type CatalogService struct {
	client *catalog.Client
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(client *catalog.Client, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		client: client,
		logger: logger,
	}
}

// Search queries the catalog. Never returns an error for provider trouble;
// the caller sees an empty result set and the failure goes to the log.
func (s *CatalogService) Search(ctx context.Context, query string) []catalog.Volume {
	volumes, err := s.client.SearchVolumes(ctx, query)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("catalog search failed",
				"query", query,
				"error", err,
			)
		}
		return []catalog.Volume{}
	}
	return volumes
}
