// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotANumber is shown wherever a numeric field could not be read.
const NotANumber = "n/a"

// FormatValue formats a record's numeric field. Whole numbers print without
// decimals and large ones get comma separators.
// e.g., 8 -> "8", 1234 -> "1,234", 2.25 -> "2.3", NaN -> "n/a"
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return NotANumber
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return FormatNumber(int64(v))
	default:
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 progress value as a whole percentage.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}

// FormatShare formats count as a share of total, e.g. "2 (50%)".
func FormatShare(count, total int) string {
	if total <= 0 {
		return strconv.Itoa(count)
	}
	return fmt.Sprintf("%d (%.0f%%)", count, float64(count)/float64(total)*100)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
