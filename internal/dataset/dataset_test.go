package dataset

import (
	"errors"
	"testing"

	"github.com/vps-compare/internal/domain"
)

func validPlan(id string) domain.Plan {
	return domain.Plan{
		ID:           id,
		Name:         "Test Plan",
		Provider:     "TestHost",
		ProviderSlug: "testhost",
		Type:         domain.CloudVPS,
		Price:        5.00,
		Currency:     domain.USD,
		Billing:      domain.Monthly,
		Location:     domain.Location{Country: "Germany", City: "Berlin", CountryCode: "de"},
	}
}

func TestLoadEmbeddedSeed(t *testing.T) {
	ds, err := Load()
	if err != nil {
		t.Fatalf("embedded seed failed to load: %v", err)
	}
	if ds.Len() == 0 {
		t.Fatal("embedded seed is empty")
	}
	if len(ds.Providers()) == 0 {
		t.Fatal("provider directory is empty")
	}

	// every plan's slug must appear in the provider directory
	known := make(map[string]bool)
	for _, p := range ds.Providers() {
		known[p.ID] = true
	}
	for _, p := range ds.All() {
		if !known[p.ProviderSlug] {
			t.Errorf("plan %s references unknown provider slug %q", p.ID, p.ProviderSlug)
		}
	}
}

func TestNewRejectsDuplicateID(t *testing.T) {
	_, err := New([]domain.Plan{validPlan("a"), validPlan("a")}, nil)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "id" {
		t.Errorf("expected id field error, got %s", verr.Field)
	}
}

func TestNewRejectsInconsistentCountryCode(t *testing.T) {
	a := validPlan("a")
	b := validPlan("b")
	b.Location.CountryCode = "gm"

	_, err := New([]domain.Plan{a, b}, nil)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "country_code" {
		t.Errorf("expected country_code field error, got %s", verr.Field)
	}
	if verr.PlanID != "b" {
		t.Errorf("expected the conflicting record flagged, got %s", verr.PlanID)
	}
}

func TestNewRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Plan)
		field  string
	}{
		{"missing id", func(p *domain.Plan) { p.ID = "" }, "id"},
		{"missing name", func(p *domain.Plan) { p.Name = "" }, "name"},
		{"missing provider", func(p *domain.Plan) { p.Provider = "" }, "provider"},
		{"unknown type", func(p *domain.Plan) { p.Type = "Quantum Hosting" }, "type"},
		{"negative price", func(p *domain.Plan) { p.Price = -1 }, "price"},
		{"unknown currency", func(p *domain.Plan) { p.Currency = "XYZ" }, "currency"},
		{"uppercase country code", func(p *domain.Plan) { p.Location.CountryCode = "DE" }, "country_code"},
		{"long country code", func(p *domain.Plan) { p.Location.CountryCode = "deu" }, "country_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlan("x")
			tt.mutate(&p)
			_, err := New([]domain.Plan{p}, nil)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Field)
			}
		})
	}
}

func TestNewRejectsSlugCollision(t *testing.T) {
	a := validPlan("a")
	b := validPlan("b")
	b.Provider = "OtherHost"
	_, err := New([]domain.Plan{a, b}, nil)
	if err == nil {
		t.Fatal("expected error for slug shared by two provider names")
	}
}

func TestByID(t *testing.T) {
	ds, err := New([]domain.Plan{validPlan("a"), validPlan("b")}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, ok := ds.ByID("b")
	if !ok || p.ID != "b" {
		t.Errorf("expected plan b, got %+v ok=%v", p, ok)
	}
	if _, ok := ds.ByID("missing"); ok {
		t.Error("expected miss for unknown id")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	ds, err := New([]domain.Plan{validPlan("a"), validPlan("b")}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := ds.All()
	first[0].Name = "mutated"
	if again := ds.All(); again[0].Name == "mutated" {
		t.Error("All must return a defensive copy")
	}
}
