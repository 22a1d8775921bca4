package engine

import (
	"strconv"
	"strings"
)

// LeadingNumber extracts the leading numeric portion of a free-text spec
// label: "4 Cores" -> 4, "8 GB" -> 8, "1.5 TB" -> 1.5. Labels with no
// leading number yield 0.
func LeadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	sawDigit := false
	sawDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			sawDigit = true
			end++
			continue
		}
		if c == '.' && !sawDot {
			sawDot = true
			end++
			continue
		}
		break
	}
	if !sawDigit {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}
