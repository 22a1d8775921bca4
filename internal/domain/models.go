// Package domain contains the core domain models for the VPS comparison
// service. These models are provider-agnostic and represent the business
// logic entities.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DataSource selects which upstream the plan listing is served from
type DataSource string

const (
	MockSource DataSource = "mock"
	RealSource DataSource = "real"
)

// ParseDataSource parses a string into a DataSource.
// Returns MockSource as default if the string doesn't match any known source.
func ParseDataSource(s string) DataSource {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "real":
		return RealSource
	default:
		return MockSource
	}
}

// String returns the string representation of the data source
func (d DataSource) String() string {
	return string(d)
}

// IsValid checks if the data source is a known valid source
func (d DataSource) IsValid() bool {
	switch d {
	case MockSource, RealSource:
		return true
	default:
		return false
	}
}

// CacheKeyPrefix returns the cache key prefix for the data source
func (d DataSource) CacheKeyPrefix() string {
	return string(d) + ":"
}

// PlanType categorizes a hosting plan
type PlanType string

const (
	SharedHosting    PlanType = "Shared Hosting"
	VPSHosting       PlanType = "VPS Hosting"
	CloudVPS         PlanType = "Cloud VPS"
	DedicatedServer  PlanType = "Dedicated Server"
	WordPressHosting PlanType = "WordPress Hosting"
	ResellerHosting  PlanType = "Reseller Hosting"
	ManagedVPS       PlanType = "Managed VPS"
	UnmanagedVPS     PlanType = "Unmanaged VPS"
)

// KnownPlanTypes lists every plan type the dataset may carry, in display order.
func KnownPlanTypes() []PlanType {
	return []PlanType{
		SharedHosting, VPSHosting, CloudVPS, DedicatedServer,
		WordPressHosting, ResellerHosting, ManagedVPS, UnmanagedVPS,
	}
}

// IsValid checks if the plan type is drawn from the known set
func (p PlanType) IsValid() bool {
	for _, t := range KnownPlanTypes() {
		if p == t {
			return true
		}
	}
	return false
}

// Currency is the ISO 4217 code a price is denominated in
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// IsValid checks if the currency is one of the supported set
func (c Currency) IsValid() bool {
	switch c {
	case USD, EUR, GBP:
		return true
	default:
		return false
	}
}

// BillingFrequency is the cadence a plan price is charged at
type BillingFrequency string

const (
	Monthly   BillingFrequency = "monthly"
	Quarterly BillingFrequency = "quarterly"
	Yearly    BillingFrequency = "yearly"
)

// Virtualization is the hypervisor technology backing a plan
type Virtualization string

const (
	KVM    Virtualization = "KVM"
	OpenVZ Virtualization = "OpenVZ"
	VMware Virtualization = "VMware"
	HyperV Virtualization = "Hyper-V"
	Xen    Virtualization = "Xen"
	LXC    Virtualization = "LXC"
)

// DiskType is the storage medium backing a plan
type DiskType string

const (
	SSD    DiskType = "SSD"
	NVMe   DiskType = "NVMe SSD"
	HDD    DiskType = "HDD"
	Hybrid DiskType = "Hybrid"
)

// Bandwidth is a monthly transfer allowance in GB. Some providers sell
// unmetered plans; those carry the "unlimited" sentinel, which sorts above
// any finite allowance.
type Bandwidth struct {
	GB        float64
	Unlimited bool
}

// UnlimitedBandwidth returns the unmetered sentinel value
func UnlimitedBandwidth() Bandwidth {
	return Bandwidth{Unlimited: true}
}

// String returns the display form of the allowance
func (b Bandwidth) String() string {
	if b.Unlimited {
		return "unlimited"
	}
	return strconv.FormatFloat(b.GB, 'f', -1, 64) + " GB"
}

// SortValue returns the value used for ordering; unlimited is larger than
// any finite allowance.
func (b Bandwidth) SortValue() float64 {
	if b.Unlimited {
		return float64(1 << 62)
	}
	return b.GB
}

// MarshalJSON encodes finite allowances as numbers and unmetered ones as
// the "unlimited" string, matching the public API contract.
func (b Bandwidth) MarshalJSON() ([]byte, error) {
	if b.Unlimited {
		return json.Marshal("unlimited")
	}
	return json.Marshal(b.GB)
}

// UnmarshalJSON accepts either a number or the "unlimited" string
func (b *Bandwidth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.EqualFold(s, "unlimited") {
			*b = Bandwidth{Unlimited: true}
			return nil
		}
		return fmt.Errorf("invalid bandwidth %q", s)
	}
	var gb float64
	if err := json.Unmarshal(data, &gb); err != nil {
		return fmt.Errorf("invalid bandwidth: %w", err)
	}
	*b = Bandwidth{GB: gb}
	return nil
}

// UnmarshalYAML accepts either a number or the "unlimited" string, so seed
// files can write `bandwidth_gb: unlimited` directly.
func (b *Bandwidth) UnmarshalYAML(value *yaml.Node) error {
	if strings.EqualFold(value.Value, "unlimited") {
		*b = Bandwidth{Unlimited: true}
		return nil
	}
	gb, err := strconv.ParseFloat(value.Value, 64)
	if err != nil {
		return fmt.Errorf("invalid bandwidth %q", value.Value)
	}
	*b = Bandwidth{GB: gb}
	return nil
}

// Location is the datacenter a plan is provisioned in
type Location struct {
	Country     string `json:"country" yaml:"country"`
	City        string `json:"city" yaml:"city"`
	CountryCode string `json:"countryCode" yaml:"country_code"` // lowercase ISO 3166-1 alpha-2
	Region      string `json:"region,omitempty" yaml:"region,omitempty"`
}

// Resources is the hardware bundle included in a plan
type Resources struct {
	CPUCores  int       `json:"cpuCores" yaml:"cpu_cores"`
	CPULabel  string    `json:"cpuLabel,omitempty" yaml:"cpu_label,omitempty"` // e.g. "4 Cores AMD EPYC"
	RAMMB     int       `json:"ramMb" yaml:"ram_mb"`
	DiskGB    float64   `json:"diskGb" yaml:"disk_gb"`
	DiskType  DiskType  `json:"diskType,omitempty" yaml:"disk_type,omitempty"`
	Bandwidth Bandwidth `json:"bandwidthGb" yaml:"bandwidth_gb"`
	PortSpeed string    `json:"portSpeed,omitempty" yaml:"port_speed,omitempty"` // e.g. "1 Gbps"
}

// Network is the address allocation included in a plan. IPv4 is a count or
// the "NAT"/"Shared" sentinel; IPv6 is a count, a CIDR suffix like "/64",
// or "Shared".
type Network struct {
	IPv4           string `json:"ipv4" yaml:"ipv4"`
	IPv6           string `json:"ipv6" yaml:"ipv6"`
	DDoSProtection bool   `json:"ddosProtection,omitempty" yaml:"ddos_protection,omitempty"`
}

// Plan is a single hosting offering from one provider. Records are built
// once at startup and never mutated; the dataset owns them exclusively.
type Plan struct {
	ID             string           `json:"id" yaml:"id"`
	Name           string           `json:"name" yaml:"name"`
	Provider       string           `json:"provider" yaml:"provider"`
	ProviderSlug   string           `json:"providerSlug" yaml:"provider_slug"`
	Type           PlanType         `json:"type" yaml:"type"`
	Virtualization Virtualization   `json:"virtualization,omitempty" yaml:"virtualization,omitempty"`
	Price          float64          `json:"price" yaml:"price"` // per billing period
	YearlyPrice    float64          `json:"yearlyPrice,omitempty" yaml:"yearly_price,omitempty"`
	Currency       Currency         `json:"currency" yaml:"currency"`
	Billing        BillingFrequency `json:"billing" yaml:"billing"`
	Location       Location         `json:"location" yaml:"location"`
	Resources      Resources        `json:"resources" yaml:"resources"`
	Network        Network          `json:"network" yaml:"network"`
	Features       []string         `json:"features,omitempty" yaml:"features,omitempty"`
	ControlPanel   string           `json:"controlPanel,omitempty" yaml:"control_panel,omitempty"`
	OrderURL       string           `json:"orderUrl" yaml:"order_url"`
	LastUpdated    time.Time        `json:"lastUpdated" yaml:"last_updated"`
}

// ProviderInfo describes a hosting company in the provider directory
type ProviderInfo struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Website string `json:"website" yaml:"website"`
	Active  bool   `json:"isActive" yaml:"active"`
}
