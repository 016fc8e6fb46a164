package catalog

import "testing"

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$1,000.00", 1000, true},
		{"$2,299 - $3,099", 2299, true},
		{"$500", 500, true},
		{"450.50", 450.5, true},
		{"from $89", 89, true},
		{"call for pricing", 0, false},
		{"", 0, false},
		{"$", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParsePrice(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParsePrice(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
