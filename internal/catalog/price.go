package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// priceToken matches the first decimal-delimited numeric run in a price
// string, allowing thousand separators: "1,000.00", "2299", "450.5".
var priceToken = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)

// ParsePrice extracts the numeric value from a display price string.
// Ranges take their lower bound ("$2,299 - $3,099" -> 2299); anything
// without a numeric token parses to 0 with ok=false so callers can decide
// how to degrade.
func ParsePrice(price string) (value float64, ok bool) {
	tok := priceToken.FindString(price)
	if tok == "" {
		return 0, false
	}
	tok = strings.ReplaceAll(tok, ",", "")
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
