package domain

import "strings"

// SortKey identifies a plan attribute the listing can be ordered by
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByProvider  SortKey = "provider"
	SortByPrice     SortKey = "price"
	SortByCPU       SortKey = "cpu"
	SortByRAM       SortKey = "ram"
	SortByStorage   SortKey = "storage"
	SortByBandwidth SortKey = "bandwidth"
	SortByLocation  SortKey = "location"
)

// ParseSortKey parses a string into a SortKey. The empty string (no sort)
// parses as valid; anything else unknown is rejected.
func ParseSortKey(s string) (SortKey, bool) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "", SortByName, SortByProvider, SortByPrice, SortByCPU,
		SortByRAM, SortByStorage, SortByBandwidth, SortByLocation:
		return key, true
	default:
		return "", false
	}
}

// SortOrder is the direction of an ordered listing
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder parses a string into a SortOrder, defaulting to Ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(Descending)) {
		return Descending
	}
	return Ascending
}

// Pagination and price-range defaults for plan queries
const (
	DefaultPage     = 1
	DefaultPageSize = 25
	MinPriceDefault = 0
	// MaxPriceDefault is an effectively-unbounded upper price bound used
	// when the caller gives none.
	MaxPriceDefault = 999999
)

// Query describes a requested view of the plan dataset: filters, sort, and
// a pagination window. A max price of zero is an explicit bound matching
// only free plans; start from DefaultQuery for the unbounded view. The
// zero value is not valid as-is; run it through Normalized before
// executing.
type Query struct {
	Provider  string    `json:"provider,omitempty"`
	Type      string    `json:"type,omitempty"`
	MinPrice  float64   `json:"minPrice,omitempty"`
	MaxPrice  float64   `json:"maxPrice,omitempty"`
	SortBy    SortKey   `json:"sortBy,omitempty"`
	SortOrder SortOrder `json:"sortOrder,omitempty"`
	Page      int       `json:"page"`
	PageSize  int       `json:"pageSize"`
}

// DefaultQuery returns an unfiltered first-page query
func DefaultQuery() Query {
	return Query{
		MinPrice:  MinPriceDefault,
		MaxPrice:  MaxPriceDefault,
		SortOrder: Ascending,
		Page:      DefaultPage,
		PageSize:  DefaultPageSize,
	}
}

// Normalized coerces the query into a valid one: page and pageSize become
// positive, negative price bounds are replaced with defaults, an unknown
// sort key is dropped, and the sort order collapses to asc/desc. A max
// price of exactly zero is kept; it is a valid bound, not an absent one.
// Invalid input never produces an error, only defaults.
func (q Query) Normalized() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.MaxPrice < 0 {
		q.MaxPrice = MaxPriceDefault
	}
	if q.MinPrice < 0 {
		q.MinPrice = MinPriceDefault
	}
	if key, ok := ParseSortKey(string(q.SortBy)); ok {
		q.SortBy = key
	} else {
		q.SortBy = ""
	}
	q.SortOrder = ParseSortOrder(string(q.SortOrder))
	return q
}

// QueryResult is one page of a filtered, sorted plan listing together with
// the pagination metadata describing the full match set.
type QueryResult struct {
	Plans      []Plan `json:"plans"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}
