// Package datasync keeps a client-side view of the plan listing in step
// with the query service: it refetches on every view change, polls for
// fresh data, and guarantees the newest request always wins.
package datasync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vps-compare/internal/domain"
)

// Client fetches plan listings from a comparison API instance
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// listEnvelope mirrors the listing response body: the page and its
// pagination metadata nested under data.
type listEnvelope struct {
	Success     bool               `json:"success"`
	Data        domain.QueryResult `json:"data"`
	LastUpdated string             `json:"lastUpdated"`
	Error       string             `json:"error,omitempty"`
}

// ListPlans runs a query against the API and returns the page with the
// server's listing timestamp.
func (c *Client) ListPlans(ctx context.Context, q domain.Query, src domain.DataSource) (domain.QueryResult, time.Time, error) {
	params := url.Values{}
	if q.Provider != "" {
		params.Set("provider", q.Provider)
	}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.MinPrice > 0 {
		params.Set("minPrice", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != domain.MaxPriceDefault {
		params.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.SortBy != "" {
		params.Set("sortBy", string(q.SortBy))
		params.Set("sortOrder", string(q.SortOrder))
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	if src != "" {
		params.Set("source", src.String())
	}

	reqURL := fmt.Sprintf("%s/api/plans?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.QueryResult{}, time.Time{}, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.QueryResult{}, time.Time{}, err
	}
	defer resp.Body.Close()

	var env listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return domain.QueryResult{}, time.Time{}, fmt.Errorf("failed to decode listing: %w", err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = resp.Status
		}
		return domain.QueryResult{}, time.Time{}, fmt.Errorf("listing request failed: %s", msg)
	}

	updated, _ := time.Parse(time.RFC3339, env.LastUpdated)

	return env.Data, updated, nil
}
