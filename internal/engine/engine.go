// Package engine implements the plan query engine: deterministic filtering,
// sorting, and pagination over the in-memory plan dataset.
package engine

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vps-compare/internal/domain"
)

// Execute computes one page of a filtered, sorted plan listing. It is a
// pure function: the input slice is never mutated, and the same inputs
// always produce the same output. A filter combination matching nothing is
// a valid empty result, not an error.
func Execute(plans []domain.Plan, q domain.Query) domain.QueryResult {
	q = q.Normalized()

	filtered := applyFilters(plans, q)
	if q.SortBy != "" {
		sortPlans(filtered, q.SortBy, q.SortOrder)
	}

	return paginate(filtered, q)
}

// applyFilters conjoins the provider, type, and price-range filters, in
// that order, returning a fresh slice.
func applyFilters(plans []domain.Plan, q domain.Query) []domain.Plan {
	result := make([]domain.Plan, 0, len(plans))
	for _, p := range plans {
		if !matchesProvider(p, q.Provider) {
			continue
		}
		if !matchesType(p, q.Type) {
			continue
		}
		if p.Price < q.MinPrice || p.Price > q.MaxPrice {
			continue
		}
		result = append(result, p)
	}
	return result
}

// matchesProvider applies case-insensitive substring containment against
// either the display name or the slug, so partial user input like
// "hostin" still narrows the listing.
func matchesProvider(p domain.Plan, filter string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(strings.TrimSpace(filter))
	return strings.Contains(strings.ToLower(p.Provider), needle) ||
		strings.Contains(strings.ToLower(p.ProviderSlug), needle)
}

// matchesType applies case-insensitive exact matching; plan types come from
// a fixed enumerated set, so programmatic callers get a strict contract.
func matchesType(p domain.Plan, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.EqualFold(string(p.Type), strings.TrimSpace(filter))
}

// sortPlans orders the slice in place. The sort is stable: ties keep their
// dataset order, and descending is the exact reverse of ascending for
// distinct keys.
func sortPlans(plans []domain.Plan, key domain.SortKey, order domain.SortOrder) {
	coll := collate.New(language.English, collate.Loose)

	cmp := func(a, b domain.Plan) int {
		switch key {
		case domain.SortByName:
			return coll.CompareString(a.Name, b.Name)
		case domain.SortByProvider:
			return coll.CompareString(a.Provider, b.Provider)
		case domain.SortByLocation:
			return coll.CompareString(a.Location.City, b.Location.City)
		default:
			return compareFloat(numericSortValue(a, key), numericSortValue(b, key))
		}
	}

	sort.SliceStable(plans, func(i, j int) bool {
		c := cmp(plans[i], plans[j])
		if order == domain.Descending {
			return c > 0
		}
		return c < 0
	})
}

// numericSortValue resolves the numeric keys. Structured record fields are
// preferred; free-text descriptors fall back to their leading numeric
// portion, and anything non-numeric sorts as 0.
func numericSortValue(p domain.Plan, key domain.SortKey) float64 {
	switch key {
	case domain.SortByPrice:
		return p.Price
	case domain.SortByCPU:
		if p.Resources.CPUCores > 0 {
			return float64(p.Resources.CPUCores)
		}
		return LeadingNumber(p.Resources.CPULabel)
	case domain.SortByRAM:
		return float64(p.Resources.RAMMB)
	case domain.SortByStorage:
		return p.Resources.DiskGB
	case domain.SortByBandwidth:
		return p.Resources.Bandwidth.SortValue()
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// paginate slices the filtered set into the requested window. A page past
// the end yields an empty slice, never an error.
func paginate(plans []domain.Plan, q domain.Query) domain.QueryResult {
	total := len(plans)
	totalPages := 0
	if total > 0 {
		totalPages = (total + q.PageSize - 1) / q.PageSize
	}

	start := (q.Page - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}

	page := make([]domain.Plan, end-start)
	copy(page, plans[start:end])

	return domain.QueryResult{
		Plans:      page,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}
}

// DistinctProviders returns the sorted set of provider display names
// present in the given records, for filter-selection UIs.
func DistinctProviders(plans []domain.Plan) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, p := range plans {
		if !seen[p.Provider] {
			seen[p.Provider] = true
			names = append(names, p.Provider)
		}
	}
	coll := collate.New(language.English, collate.Loose)
	coll.SortStrings(names)
	return names
}

// DistinctTypes returns the sorted set of plan types present in the given
// records.
func DistinctTypes(plans []domain.Plan) []string {
	seen := make(map[domain.PlanType]bool)
	types := make([]string, 0)
	for _, p := range plans {
		if !seen[p.Type] {
			seen[p.Type] = true
			types = append(types, string(p.Type))
		}
	}
	coll := collate.New(language.English, collate.Loose)
	coll.SortStrings(types)
	return types
}

// SiblingPlans returns every other plan by the same provider, sorted by
// ascending price, for the plan detail view.
func SiblingPlans(plans []domain.Plan, plan domain.Plan) []domain.Plan {
	siblings := make([]domain.Plan, 0)
	for _, p := range plans {
		if p.ProviderSlug == plan.ProviderSlug && p.ID != plan.ID {
			siblings = append(siblings, p)
		}
	}
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].Price < siblings[j].Price
	})
	return siblings
}
