package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/vps-compare/internal/domain"
)

// WebsiteHealthChecker probes a provider's public website. It reports
// latency, not correctness; any HTTP response counts as reachable.
type WebsiteHealthChecker struct {
	client *http.Client
}

// NewWebsiteHealthChecker creates a checker with the given probe timeout
func NewWebsiteHealthChecker(timeout time.Duration) *WebsiteHealthChecker {
	return &WebsiteHealthChecker{
		client: &http.Client{Timeout: timeout},
	}
}

// Check probes the provider website with a HEAD request
func (w *WebsiteHealthChecker) Check(ctx context.Context, p domain.ProviderInfo) domain.HealthStatus {
	if !p.Active {
		return domain.HealthStatus{Status: "inactive"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.Website, nil)
	if err != nil {
		return domain.HealthStatus{Status: "unreachable", Message: err.Error()}
	}

	start := time.Now()
	resp, err := w.client.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return domain.HealthStatus{Status: "unreachable", LatencyMS: latency, Message: err.Error()}
	}
	defer resp.Body.Close()

	status := "healthy"
	if resp.StatusCode >= 500 {
		status = "degraded"
	}
	return domain.HealthStatus{Status: status, LatencyMS: latency}
}
