package engine

import (
	"reflect"
	"testing"

	"github.com/vps-compare/internal/domain"
)

func testPlans() []domain.Plan {
	return []domain.Plan{
		{
			ID: "racknerd-1", Name: "KVM 1GB", Provider: "RackNerd",
			ProviderSlug: "racknerd", Type: domain.CloudVPS, Price: 2.50,
			Location:  domain.Location{City: "Los Angeles", Country: "United States"},
			Resources: domain.Resources{CPUCores: 1, RAMMB: 1024, DiskGB: 20, Bandwidth: domain.Bandwidth{GB: 2000}},
		},
		{
			ID: "hostinger-1", Name: "KVM 2", Provider: "Hostinger",
			ProviderSlug: "hostinger", Type: domain.CloudVPS, Price: 4.99,
			Location:  domain.Location{City: "Vilnius", Country: "Lithuania"},
			Resources: domain.Resources{CPUCores: 2, RAMMB: 8192, DiskGB: 100, Bandwidth: domain.Bandwidth{GB: 8000}},
		},
		{
			ID: "hetzner-1", Name: "Dedicated AX102", Provider: "Hetzner",
			ProviderSlug: "hetzner", Type: domain.DedicatedServer, Price: 169.99,
			Location:  domain.Location{City: "Falkenstein", Country: "Germany"},
			Resources: domain.Resources{CPUCores: 16, RAMMB: 131072, DiskGB: 3840, Bandwidth: domain.Bandwidth{Unlimited: true}},
		},
	}
}

func planIDs(plans []domain.Plan) []string {
	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	return ids
}

func TestExecutePriceRange(t *testing.T) {
	result := Execute(testPlans(), domain.Query{MinPrice: 3, MaxPrice: 100})

	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
	if result.TotalPages != 1 {
		t.Errorf("expected 1 total page, got %d", result.TotalPages)
	}
	if len(result.Plans) != 1 || result.Plans[0].Price != 4.99 {
		t.Errorf("expected the 4.99 plan, got %+v", result.Plans)
	}

	// filtering is idempotent: re-running over the page changes nothing
	again := Execute(result.Plans, domain.Query{MinPrice: 3, MaxPrice: 100})
	if !reflect.DeepEqual(again.Plans, result.Plans) {
		t.Errorf("re-filter changed the result: %+v vs %+v", again.Plans, result.Plans)
	}
}

func TestExecutePriceBoundsInclusive(t *testing.T) {
	result := Execute(testPlans(), domain.Query{MinPrice: 2.50, MaxPrice: 4.99})
	if result.Total != 2 {
		t.Errorf("bounds should be inclusive, got total %d", result.Total)
	}
}

func TestExecuteZeroMaxPriceMatchesOnlyFreePlans(t *testing.T) {
	plans := append(testPlans(), domain.Plan{
		ID: "free-1", Name: "Free Tier", Provider: "FreeHost", ProviderSlug: "freehost",
		Type: domain.SharedHosting, Price: 0, Currency: domain.USD,
	})

	result := Execute(plans, domain.Query{MaxPrice: 0})
	if result.Total != 1 || result.Plans[0].ID != "free-1" {
		t.Errorf("max price 0 should match only free plans, got %+v", result.Plans)
	}
}

func TestExecuteProviderSubstring(t *testing.T) {
	tests := []struct {
		name     string
		filter   string
		expected int
	}{
		{"exact lowercase", "hostinger", 1},
		{"mixed case", "HoStInGeR", 1},
		{"partial", "hostin", 1},
		{"no match", "ovh", 0},
		{"empty matches all", "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Execute(testPlans(), domain.Query{Provider: tt.filter, MaxPrice: domain.MaxPriceDefault})
			if result.Total != tt.expected {
				t.Errorf("filter %q: expected %d matches, got %d", tt.filter, tt.expected, result.Total)
			}
		})
	}
}

func TestExecuteTypeExactMatch(t *testing.T) {
	result := Execute(testPlans(), domain.Query{Type: "cloud vps", MaxPrice: domain.MaxPriceDefault})
	if result.Total != 2 {
		t.Errorf("expected 2 Cloud VPS plans, got %d", result.Total)
	}

	// a substring of a type name must not match
	result = Execute(testPlans(), domain.Query{Type: "Cloud", MaxPrice: domain.MaxPriceDefault})
	if result.Total != 0 {
		t.Errorf("partial type should not match, got %d", result.Total)
	}
}

func TestExecuteSortPriceDescending(t *testing.T) {
	result := Execute(testPlans(), domain.Query{SortBy: domain.SortByPrice, SortOrder: domain.Descending, MaxPrice: domain.MaxPriceDefault})

	got := []float64{result.Plans[0].Price, result.Plans[1].Price, result.Plans[2].Price}
	want := []float64{169.99, 4.99, 2.50}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExecuteSortStable(t *testing.T) {
	plans := testPlans()
	// two plans at the same price keep dataset order
	plans[1].Price = 2.50

	result := Execute(plans, domain.Query{SortBy: domain.SortByPrice, MaxPrice: domain.MaxPriceDefault})
	got := planIDs(result.Plans)
	want := []string{"racknerd-1", "hostinger-1", "hetzner-1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected stable order %v, got %v", want, got)
	}
}

func TestExecuteSortBandwidthUnlimitedLast(t *testing.T) {
	result := Execute(testPlans(), domain.Query{SortBy: domain.SortByBandwidth, MaxPrice: domain.MaxPriceDefault})
	last := result.Plans[len(result.Plans)-1]
	if !last.Resources.Bandwidth.Unlimited {
		t.Errorf("unlimited bandwidth should sort above every finite value, got %s last", last.ID)
	}
}

func TestExecuteSortByName(t *testing.T) {
	result := Execute(testPlans(), domain.Query{SortBy: domain.SortByName, MaxPrice: domain.MaxPriceDefault})
	got := planIDs(result.Plans)
	want := []string{"hetzner-1", "racknerd-1", "hostinger-1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExecutePagination(t *testing.T) {
	plans := make([]domain.Plan, 5)
	for i := range plans {
		plans[i] = domain.Plan{ID: string(rune('a' + i)), Price: float64(i + 1)}
	}

	tests := []struct {
		page      int
		wantCount int
		wantPages int
		wantTotal int
	}{
		{1, 2, 3, 5},
		{2, 2, 3, 5},
		{3, 1, 3, 5},
		{4, 0, 3, 5},
	}

	for _, tt := range tests {
		result := Execute(plans, domain.Query{Page: tt.page, PageSize: 2, MaxPrice: domain.MaxPriceDefault})
		if len(result.Plans) != tt.wantCount {
			t.Errorf("page %d: expected %d records, got %d", tt.page, tt.wantCount, len(result.Plans))
		}
		if result.TotalPages != tt.wantPages {
			t.Errorf("page %d: expected %d total pages, got %d", tt.page, tt.wantPages, result.TotalPages)
		}
		if result.Total != tt.wantTotal {
			t.Errorf("page %d: expected total %d, got %d", tt.page, tt.wantTotal, result.Total)
		}
	}
}

func TestExecutePaginationPartition(t *testing.T) {
	plans := make([]domain.Plan, 7)
	for i := range plans {
		plans[i] = domain.Plan{ID: string(rune('a' + i))}
	}

	// walking every page reassembles the full set exactly once
	var collected []string
	for page := 1; page <= 3; page++ {
		result := Execute(plans, domain.Query{Page: page, PageSize: 3, MaxPrice: domain.MaxPriceDefault})
		collected = append(collected, planIDs(result.Plans)...)
	}
	if !reflect.DeepEqual(collected, planIDs(plans)) {
		t.Errorf("pages do not partition the set: %v", collected)
	}
}

func TestExecuteEmptyDataset(t *testing.T) {
	result := Execute(nil, domain.DefaultQuery())
	if result.Total != 0 || result.TotalPages != 0 || len(result.Plans) != 0 {
		t.Errorf("empty dataset should yield empty result, got %+v", result)
	}
}

func TestExecuteDoesNotMutateInput(t *testing.T) {
	plans := testPlans()
	Execute(plans, domain.Query{SortBy: domain.SortByPrice, SortOrder: domain.Descending, MaxPrice: domain.MaxPriceDefault})

	// input keeps its all-results sort only when Execute copies before sorting
	got := planIDs(plans)
	want := []string{"racknerd-1", "hostinger-1", "hetzner-1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("input slice was reordered: %v", got)
	}
}

func TestExecuteRecordCountNeverExceedsPageSize(t *testing.T) {
	for page := 1; page <= 5; page++ {
		result := Execute(testPlans(), domain.Query{Page: page, PageSize: 2, MaxPrice: domain.MaxPriceDefault})
		if len(result.Plans) > result.PageSize {
			t.Errorf("page %d: %d records exceeds pageSize %d", page, len(result.Plans), result.PageSize)
		}
	}
}

func TestDistinctProviders(t *testing.T) {
	got := DistinctProviders(testPlans())
	want := []string{"Hetzner", "Hostinger", "RackNerd"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDistinctTypes(t *testing.T) {
	got := DistinctTypes(testPlans())
	want := []string{"Cloud VPS", "Dedicated Server"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSiblingPlans(t *testing.T) {
	plans := testPlans()
	plans = append(plans, domain.Plan{
		ID: "hostinger-2", Provider: "Hostinger", ProviderSlug: "hostinger", Price: 2.99,
	})

	siblings := SiblingPlans(plans, plans[1])
	if len(siblings) != 1 {
		t.Fatalf("expected 1 sibling, got %d", len(siblings))
	}
	if siblings[0].ID != "hostinger-2" {
		t.Errorf("expected hostinger-2, got %s", siblings[0].ID)
	}
}
