package provider

import (
	"github.com/vps-compare/internal/config"
	"github.com/vps-compare/internal/domain"
)

// Catalog bundles the dataset and provider directory a source draws from
type Catalog interface {
	domain.PlanDataset
	Providers() []domain.ProviderInfo
}

// ForSource builds the PlanSource for the requested data source, wrapped
// in the shared cache. An unknown source returns ErrUnknownSource.
func ForSource(src domain.DataSource, catalog Catalog, cfg *config.Config) (domain.PlanSource, error) {
	var upstream domain.PlanSource
	switch src {
	case domain.MockSource:
		upstream = NewMockSource(catalog, catalog.Providers())
	case domain.RealSource:
		upstream = NewRealSource(catalog, catalog.Providers(), cfg.Providers)
	default:
		return nil, domain.ErrUnknownSource
	}

	return NewCachedSource(upstream, GetCacheManager()), nil
}
