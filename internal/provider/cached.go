package provider

import (
	"context"

	"github.com/vps-compare/internal/domain"
	"github.com/vps-compare/internal/logging"
)

// CachedSource wraps a PlanSource with the shared cache manager. Fetches
// hit the upstream only after the cached listing expires or the cache is
// manually refreshed.
type CachedSource struct {
	upstream domain.PlanSource
	cache    *CacheManager
	log      *logging.Logger
}

// NewCachedSource wraps the upstream with the given cache
func NewCachedSource(upstream domain.PlanSource, cache *CacheManager) *CachedSource {
	return &CachedSource{
		upstream: upstream,
		cache:    cache,
		log:      logging.GetDefault(),
	}
}

func (c *CachedSource) plansKey() string {
	return c.upstream.Source().CacheKeyPrefix() + "plans"
}

func (c *CachedSource) providersKey() string {
	return c.upstream.Source().CacheKeyPrefix() + "providers"
}

// FetchPlans serves the cached listing, fetching from upstream on a miss
func (c *CachedSource) FetchPlans(ctx context.Context) ([]domain.Plan, error) {
	if cached, ok := c.cache.Get(c.plansKey()); ok {
		if plans, ok := cached.([]domain.Plan); ok {
			return plans, nil
		}
	}

	plans, err := c.upstream.FetchPlans(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.SetWithDefaultTTL(c.plansKey(), plans)
	c.log.Debug("cached %d plans for source %s", len(plans), c.upstream.Source())
	return plans, nil
}

// Providers serves the cached directory, fetching from upstream on a miss
func (c *CachedSource) Providers(ctx context.Context) ([]domain.ProviderInfo, error) {
	if cached, ok := c.cache.Get(c.providersKey()); ok {
		if providers, ok := cached.([]domain.ProviderInfo); ok {
			return providers, nil
		}
	}

	providers, err := c.upstream.Providers(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.SetWithDefaultTTL(c.providersKey(), providers)
	return providers, nil
}

// Source returns the upstream's data source identifier
func (c *CachedSource) Source() domain.DataSource {
	return c.upstream.Source()
}

// Invalidate drops this source's cached entries
func (c *CachedSource) Invalidate() int {
	return c.cache.DeletePrefix(c.upstream.Source().CacheKeyPrefix())
}
