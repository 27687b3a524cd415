// internal/scoring/format.go
package scoring

import (
	"fmt"
	"strconv"
)

// CompactCount renders large counts the way listing pages show them:
// 1000 -> "1.0K", 1000000 -> "1.0M". Smaller counts are printed as-is.
func CompactCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.Itoa(n)
	}
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
