package engine

import "testing"

func TestLeadingNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"4 Cores", 4},
		{"8 GB", 8},
		{"1.5 TB", 1.5},
		{"160 GB NVMe", 160},
		{"Unlimited", 0},
		{"", 0},
		{"  2 vCPU", 2},
		{"0.5 GB", 0.5},
	}

	for _, tt := range tests {
		if got := LeadingNumber(tt.input); got != tt.expected {
			t.Errorf("LeadingNumber(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
