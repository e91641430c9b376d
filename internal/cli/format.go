package cli

import (
	"fmt"
	"math"
	"strings"
)

// FormatUSD formats a dollar amount with thousands separators. Sub-dollar
// prices keep more precision so small-cap assets stay readable.
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprintf("$%v", amount)
	}

	negative := amount < 0
	if negative {
		amount = -amount
	}

	var str string
	if amount >= 1 {
		str = fmt.Sprintf("%.2f", amount)
	} else {
		str = fmt.Sprintf("%.6f", amount)
	}

	parts := strings.Split(str, ".")
	result := "$" + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas into an integer string.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(s[:rem])
		if n > rem {
			b.WriteString(",")
		}
	}
	for i := rem; i < n; i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < n {
			b.WriteString(",")
		}
	}
	return b.String()
}

// FormatCompact formats a large value in compact form (1.23T, 45.6B, 789M).
func FormatCompact(value float64) string {
	abs := value
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.2fT", value/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", value/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", value/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.1fK", value/1e3)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}
