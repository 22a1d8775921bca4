// Package dataset holds the canonical in-memory plan record set. Records
// are loaded and validated once at startup, then served read-only for the
// process lifetime.
package dataset

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vps-compare/internal/domain"
)

//go:embed plans.yaml
var plansYAML []byte

//go:embed providers.yaml
var providersYAML []byte

// Dataset is the validated, immutable record set. Safe for concurrent use.
type Dataset struct {
	plans     []domain.Plan
	byID      map[string]int
	providers []domain.ProviderInfo
}

type planFile struct {
	Plans []domain.Plan `yaml:"plans"`
}

type providerFile struct {
	Providers []domain.ProviderInfo `yaml:"providers"`
}

// Load parses and validates the embedded seed data. It is the normal way
// to build the dataset; New exists for callers that bring their own
// records, such as tests.
func Load() (*Dataset, error) {
	var pf planFile
	if err := yaml.Unmarshal(plansYAML, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse plan seed: %w", err)
	}

	var prf providerFile
	if err := yaml.Unmarshal(providersYAML, &prf); err != nil {
		return nil, fmt.Errorf("failed to parse provider seed: %w", err)
	}

	return New(pf.Plans, prf.Providers)
}

// New validates the given records and builds the dataset. Any invalid
// record fails the whole load; a dataset is either fully valid or absent.
func New(plans []domain.Plan, providers []domain.ProviderInfo) (*Dataset, error) {
	byID := make(map[string]int, len(plans))
	slugNames := make(map[string]string)
	countryCodes := make(map[string]string)

	for i, p := range plans {
		if err := validatePlan(p); err != nil {
			return nil, err
		}
		if _, dup := byID[p.ID]; dup {
			return nil, domain.NewValidationError(p.ID, "id", "duplicate plan id")
		}
		byID[p.ID] = i

		// one slug maps to exactly one display name
		if name, seen := slugNames[p.ProviderSlug]; seen && name != p.Provider {
			return nil, domain.NewValidationError(p.ID, "provider_slug",
				fmt.Sprintf("slug %q used by both %q and %q", p.ProviderSlug, name, p.Provider))
		}
		slugNames[p.ProviderSlug] = p.Provider

		// one country maps to exactly one ISO code
		country := strings.ToLower(p.Location.Country)
		if code, seen := countryCodes[country]; seen && code != p.Location.CountryCode {
			return nil, domain.NewValidationError(p.ID, "country_code",
				fmt.Sprintf("country %q carries both %q and %q", p.Location.Country, code, p.Location.CountryCode))
		}
		countryCodes[country] = p.Location.CountryCode
	}

	return &Dataset{plans: plans, byID: byID, providers: providers}, nil
}

func validatePlan(p domain.Plan) error {
	if p.ID == "" {
		return domain.NewValidationError("", "id", "missing plan id")
	}
	if p.Name == "" {
		return domain.NewValidationError(p.ID, "name", "missing plan name")
	}
	if p.Provider == "" || p.ProviderSlug == "" {
		return domain.NewValidationError(p.ID, "provider", "missing provider name or slug")
	}
	if !p.Type.IsValid() {
		return domain.NewValidationError(p.ID, "type", fmt.Sprintf("unknown plan type %q", p.Type))
	}
	if p.Price < 0 {
		return domain.NewValidationError(p.ID, "price", "price must be non-negative")
	}
	if !p.Currency.IsValid() {
		return domain.NewValidationError(p.ID, "currency", fmt.Sprintf("unknown currency %q", p.Currency))
	}
	cc := p.Location.CountryCode
	if len(cc) != 2 || cc != strings.ToLower(cc) {
		return domain.NewValidationError(p.ID, "country_code",
			fmt.Sprintf("country code %q must be lowercase ISO 3166-1 alpha-2", cc))
	}
	return nil
}

// All returns every record in insertion order. The slice is a copy; the
// caller may retain or reorder it freely.
func (d *Dataset) All() []domain.Plan {
	out := make([]domain.Plan, len(d.plans))
	copy(out, d.plans)
	return out
}

// ByID looks up a single record
func (d *Dataset) ByID(id string) (domain.Plan, bool) {
	i, ok := d.byID[id]
	if !ok {
		return domain.Plan{}, false
	}
	return d.plans[i], true
}

// Len reports the number of records
func (d *Dataset) Len() int {
	return len(d.plans)
}

// Providers returns the provider directory. The slice is a copy.
func (d *Dataset) Providers() []domain.ProviderInfo {
	out := make([]domain.ProviderInfo, len(d.providers))
	copy(out, d.providers)
	return out
}
