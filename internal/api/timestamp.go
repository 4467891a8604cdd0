package api

import (
	"fmt"
	"time"
)

// WireTimeLayout is the timestamp format clocko:do reads and writes.
// Formatting a UTC time with it renders the offset as a literal "Z".
const WireTimeLayout = "2006-01-02T15:04:05Z0700"

// FormatTimestamp renders t in UTC with second precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(WireTimeLayout)
}

// ParseTimestamp parses "2022-01-01T09:00:00Z", "2022-01-01T10:00:00+0100"
// and the RFC 3339 form with a colon in the offset.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(WireTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}
