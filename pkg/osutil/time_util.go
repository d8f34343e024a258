package osutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	// RFC3339 with millisecond precision, fixed width.
	// Used for process start timestamps passed between processes (e.g. on the command line),
	// which are compared with millisecond tolerance.
	RFC3339MiliTimestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

// Ensures two given timestamps are within a given duration of each other.
func Within(a, b time.Time, max time.Duration) bool {
	return a.Sub(b).Abs() <= max
}

// Formats a duration into a human readable string.
func FormatDuration(duration time.Duration) string {
	days := duration / (24 * time.Hour)
	duration = duration % (24 * time.Hour)
	hours := duration / time.Hour
	duration = duration % time.Hour
	minutes := duration / time.Minute
	duration = duration % time.Minute
	seconds := duration / time.Second
	milliseconds := duration % time.Second / time.Millisecond

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}
	if seconds > 0 || milliseconds > 0 {
		parts = append(parts, fmt.Sprintf("%d.%03d seconds", seconds, milliseconds))
	}

	if len(parts) == 0 {
		return "< 1ms"
	}

	return strings.Join(parts, " ")
}
