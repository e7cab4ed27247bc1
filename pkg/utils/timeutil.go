package utils

import (
	"fmt"
	"time"
)

// FormatRelativeTime renders how long ago pastMillis (Unix epoch ms) was,
// measured against the current clock on every call:
// "3d ago", "5h ago", "12m ago" or "Just now".
func FormatRelativeTime(pastMillis int64) string {
	return formatRelativeTimeAt(pastMillis, time.Now())
}

// FormatRelativeTimeAt renders t relative to an explicit now.
func FormatRelativeTimeAt(t, now time.Time) string {
	return formatRelativeTimeAt(t.UnixMilli(), now)
}

func formatRelativeTimeAt(pastMillis int64, now time.Time) string {
	diff := now.UnixMilli() - pastMillis
	minutes := diff / 1000 / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%dd ago", days)
	case hours > 0:
		return fmt.Sprintf("%dh ago", hours)
	case minutes > 0:
		return fmt.Sprintf("%dm ago", minutes)
	default:
		return "Just now"
	}
}
