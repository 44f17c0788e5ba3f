package pages

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// Money formats cents with a currency symbol and thousands separators.
func Money(cents int64, symbol string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + symbol + humanize.FormatFloat("#,###.##", float64(cents)/100)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
