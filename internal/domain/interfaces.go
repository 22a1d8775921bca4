// Package domain contains interfaces that define contracts for the application.
package domain

import (
	"context"
)

// PlanSource defines the interface for fetching plan records from an
// upstream. Implementations must be safe for concurrent use.
type PlanSource interface {
	// FetchPlans retrieves the full plan listing from the upstream
	FetchPlans(ctx context.Context) ([]Plan, error)

	// Providers returns the provider directory backing this source
	Providers(ctx context.Context) ([]ProviderInfo, error)

	// Source returns the data source identifier
	Source() DataSource
}

// PlanDataset exposes read-only iteration over the canonical record set.
// There are no mutation operations; records are fixed for the process
// lifetime.
type PlanDataset interface {
	// All returns every record in insertion order. The returned slice is
	// a copy and safe to retain.
	All() []Plan

	// ByID looks up a single record
	ByID(id string) (Plan, bool)

	// Len reports the number of records
	Len() int
}

// HealthChecker reports reachability of an upstream provider endpoint
type HealthChecker interface {
	// Check probes the provider and returns a short status label
	Check(ctx context.Context, provider ProviderInfo) HealthStatus
}

// HealthStatus is the outcome of a single provider probe
type HealthStatus struct {
	Status    string `json:"status"` // healthy, degraded, unreachable
	LatencyMS int64  `json:"latencyMs"`
	Message   string `json:"message,omitempty"`
}
