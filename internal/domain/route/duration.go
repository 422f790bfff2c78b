package route

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatDuration renders d the way the directions provider phrases durations,
// e.g. "12 mins", "2 hours", "1 hour 5 mins", "1 day 3 hours". Rounds to the minute, minimum 1 min.
func FormatDuration(d time.Duration) string {
	total := int(math.Round(d.Minutes()))
	if total < 1 {
		total = 1
	}
	days := total / (24 * 60)
	hours := (total % (24 * 60)) / 60
	mins := total % 60

	var parts []string
	switch {
	case days > 0:
		parts = append(parts, plural(days, "day"))
		if hours > 0 {
			parts = append(parts, plural(hours, "hour"))
		}
	case hours > 0:
		parts = append(parts, plural(hours, "hour"))
		if mins > 0 {
			parts = append(parts, plural(mins, "min"))
		}
	default:
		parts = append(parts, plural(mins, "min"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
