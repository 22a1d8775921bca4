// Package controller provides the programmatic API over the plan catalog.
// The web server, CLI, and Lambda handler all route through it.
package controller

import (
	"context"

	"github.com/vps-compare/internal/config"
	"github.com/vps-compare/internal/domain"
	"github.com/vps-compare/internal/engine"
	"github.com/vps-compare/internal/logging"
	"github.com/vps-compare/internal/provider"
)

// Controller coordinates the plan source, query engine, and cache
type Controller struct {
	source domain.PlanSource
	cfg    *config.Config
	log    *logging.Logger
}

// New creates a controller over the given plan source
func New(source domain.PlanSource, cfg *config.Config) *Controller {
	return &Controller{
		source: source,
		cfg:    cfg,
		log:    logging.GetDefault(),
	}
}

// Source returns the active data source identifier
func (c *Controller) Source() domain.DataSource {
	return c.source.Source()
}

// ListPlans runs a query against the current listing
func (c *Controller) ListPlans(ctx context.Context, q domain.Query) (domain.QueryResult, error) {
	plans, err := c.source.FetchPlans(ctx)
	if err != nil {
		return domain.QueryResult{}, err
	}
	return engine.Execute(plans, q), nil
}

// GetPlan returns a single plan and its same-provider siblings sorted by
// ascending price. A missing id yields ErrPlanNotFound.
func (c *Controller) GetPlan(ctx context.Context, id string) (domain.Plan, []domain.Plan, error) {
	plans, err := c.source.FetchPlans(ctx)
	if err != nil {
		return domain.Plan{}, nil, err
	}

	for _, p := range plans {
		if p.ID == id {
			return p, engine.SiblingPlans(plans, p), nil
		}
	}
	return domain.Plan{}, nil, domain.ErrPlanNotFound
}

// Providers returns the provider directory
func (c *Controller) Providers(ctx context.Context) ([]domain.ProviderInfo, error) {
	return c.source.Providers(ctx)
}

// FilterOptions lists the distinct provider names and plan types present
// in the catalog, for filter-selection UIs.
type FilterOptions struct {
	Providers []string `json:"providers"`
	Types     []string `json:"types"`
}

// Filters returns the selectable filter values
func (c *Controller) Filters(ctx context.Context) (FilterOptions, error) {
	plans, err := c.source.FetchPlans(ctx)
	if err != nil {
		return FilterOptions{}, err
	}
	return FilterOptions{
		Providers: engine.DistinctProviders(plans),
		Types:     engine.DistinctTypes(plans),
	}, nil
}

// ProviderHealth pairs a directory entry with its probe result
type ProviderHealth struct {
	Provider domain.ProviderInfo `json:"provider"`
	Status   domain.HealthStatus `json:"status"`
}

// CheckProviders probes every provider in the directory
func (c *Controller) CheckProviders(ctx context.Context, checker domain.HealthChecker) ([]ProviderHealth, error) {
	providers, err := c.source.Providers(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ProviderHealth, 0, len(providers))
	for _, p := range providers {
		results = append(results, ProviderHealth{
			Provider: p,
			Status:   checker.Check(ctx, p),
		})
	}
	return results, nil
}

// RefreshCache drops every cached listing so the next request refetches
func (c *Controller) RefreshCache() {
	provider.GetCacheManager().Refresh()
	c.log.Info("cache refreshed for source %s", c.source.Source())
}

// CacheStats reports shared cache statistics
func (c *Controller) CacheStats() provider.CacheStats {
	return provider.GetCacheManager().GetStats()
}
