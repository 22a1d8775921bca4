package provider

import (
	"context"

	"github.com/vps-compare/internal/domain"
)

// MockSource serves the curated seed catalog. It is the default source and
// never fails; the records come from the validated in-memory dataset.
type MockSource struct {
	dataset   domain.PlanDataset
	providers []domain.ProviderInfo
}

// NewMockSource creates a source backed by the given dataset
func NewMockSource(ds domain.PlanDataset, providers []domain.ProviderInfo) *MockSource {
	return &MockSource{dataset: ds, providers: providers}
}

// FetchPlans returns the full seed catalog
func (m *MockSource) FetchPlans(ctx context.Context) ([]domain.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewPlanSourceError(domain.MockSource, "fetch_plans", err)
	}
	return m.dataset.All(), nil
}

// Providers returns the provider directory
func (m *MockSource) Providers(ctx context.Context) ([]domain.ProviderInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewPlanSourceError(domain.MockSource, "providers", err)
	}
	out := make([]domain.ProviderInfo, len(m.providers))
	copy(out, m.providers)
	return out, nil
}

// Source returns the data source identifier
func (m *MockSource) Source() domain.DataSource {
	return domain.MockSource
}
