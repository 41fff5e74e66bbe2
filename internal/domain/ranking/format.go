package ranking

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var grouped = message.NewPrinter(language.English) //nolint:gochecknoglobals // stateless printer

// FormatCompact renders a count with an M or K suffix and one decimal.
func FormatCompact(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.FormatInt(n, 10)
}

// FormatWan renders a volume as "x.xx万" from ten thousand up, otherwise as
// a grouped number. Nil renders as Placeholder.
func FormatWan(n *float64) string {
	if n == nil {
		return Placeholder
	}
	if *n >= 10000 {
		return fmt.Sprintf("%.2f万", *n/10000)
	}
	if *n == math.Trunc(*n) {
		return grouped.Sprintf("%d", int64(*n))
	}
	return grouped.Sprintf("%.2f", *n)
}

// FormatRevenueWan renders a dollar amount as "$x.xx万" or "$n".
func FormatRevenueWan(r *float64) string {
	if r == nil {
		return Placeholder
	}
	if *r >= 10000 {
		return fmt.Sprintf("$%.2f万", *r/10000)
	}
	return fmt.Sprintf("$%.0f", *r)
}
