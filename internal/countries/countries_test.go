package countries

import (
	"testing"
)

func TestGetName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"US", "United States"},
		{"us", "United States"},
		{"GB", "United Kingdom"},
		{"DE", "Germany"},
		{"JP", "Japan"},
		{"CI", "Côte d'Ivoire"},
		{"BQ", "Bonaire, Sint Eustatius and Saba"},
		{"XX", ""}, // Invalid code
		{"", ""},   // Empty code
	}

	for _, tc := range tests {
		result := GetName(tc.code)
		if result != tc.expected {
			t.Errorf("GetName(%q) = %q, expected %q", tc.code, result, tc.expected)
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"US", true},
		{"us", true},
		{"GH", true},
		{"XX", false},
		{"", false},
		{"USA", false},
	}

	for _, tc := range tests {
		result := IsValid(tc.code)
		if result != tc.expected {
			t.Errorf("IsValid(%q) = %v, expected %v", tc.code, result, tc.expected)
		}
	}
}

func TestAll(t *testing.T) {
	list := All()

	if len(list) < 240 {
		t.Errorf("Expected at least 240 countries, got %d", len(list))
	}
	if len(list) != Count() {
		t.Errorf("All() returned %d entries, Count() = %d", len(list), Count())
	}

	seen := make(map[string]bool)
	for _, c := range list {
		if c.Name == "" || len(c.CountryCode) != 2 {
			t.Errorf("Malformed entry %+v", c)
		}
		if seen[c.CountryCode] {
			t.Errorf("Duplicate code %s", c.CountryCode)
		}
		seen[c.CountryCode] = true
	}

	// Callers get their own copy
	list[0].Name = "changed"
	if All()[0].Name == "changed" {
		t.Error("All() exposed the embedded dataset")
	}
}
