package analytics

import (
	"strings"
	"time"
)

// dateLayouts are the shapes the feeds are known to produce, tried in order.
// The legacy PHP feed uses DD-MM-YYYY, the migrated store YYYY-MM-DD, and the
// new order API full ISO 8601 timestamps.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-2006",
}

// ParseDate parses a feed date string into a canonical instant. It returns
// ok=false for empty input, unknown shapes, and strings that name an invalid
// calendar date (e.g. "31-02-2024"). Callers must treat a failed parse as
// "unknown date" and fall through to the least favorable classification.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// midnightUTC truncates an instant to its UTC calendar day. Lifecycle math
// compares days, not times, so both ends are normalized before subtracting.
func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days elapsed from "from" to "to", with both
// instants normalized to midnight. Negative when "from" is in the future.
func daysBetween(from, to time.Time) int {
	return int(midnightUTC(to).Sub(midnightUTC(from)).Hours() / 24)
}
