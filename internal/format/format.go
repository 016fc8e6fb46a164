// Package format holds small display formatting helpers shared by views.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FmtUSD formats a dollar amount as currency with thousand separators.
// Example: FmtUSD(3299) => "$3,299.00".
func FmtUSD(amount float64) string {
	neg := amount < 0
	cents := int64(math.Round(math.Abs(amount) * 100))
	major := cents / 100
	minor := cents % 100
	out := fmt.Sprintf("$%s.%02d", thousandSep(major), minor)
	if neg {
		return "-" + out
	}
	return out
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// FmtDate formats a time in the short form used on guide pages.
func FmtDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
