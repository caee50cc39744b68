package utils

import "time"

// NowUTC returns the current time truncated to second precision in UTC.
// Stored timestamps are RFC3339 strings, so sub-second precision would be
// lost on the first round trip anyway.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// FormatRFC3339 renders a timestamp in the canonical sortable form used by
// stored items
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseRFC3339 parses a stored timestamp
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
