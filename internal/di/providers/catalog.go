package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookflowapp/bookflow-server/internal/catalog"
	"github.com/bookflowapp/bookflow-server/internal/config"
	"github.com/bookflowapp/bookflow-server/internal/logger"
)

// CatalogClientHandle wraps the external catalog client.
type CatalogClientHandle struct {
	*catalog.Client
}

// ProvideCatalogClient provides the book catalog client.
func ProvideCatalogClient(i do.Injector) (*CatalogClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	opts := []catalog.Option{}
	if cfg.Catalog.BaseURL != "" {
		opts = append(opts, catalog.WithBaseURL(cfg.Catalog.BaseURL))
		log.Info("Catalog endpoint overridden", "base_url", cfg.Catalog.BaseURL)
	}

	return &CatalogClientHandle{Client: catalog.NewClient(log.Logger, opts...)}, nil
}
