package calllog

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Zones are written +hh:mm, +hhmm or Z; seconds, minutes and zone may each
// be left out.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15Z07:00",
	"2006-01-02T15Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04Z0700",
	"2006-01-02 15Z07:00",
	"2006-01-02 15Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02 15",
}

// ParseTime reads a window bound given as a date (YYYY-MM-DD) or an
// ISO-8601 timestamp. Dates start at 00:00:00, or end at 23:59:59 when
// endOfDay is set. Timestamps without a zone are taken as UTC. The result
// is in UTC.
func ParseTime(value string, endOfDay bool) (time.Time, error) {
	s := strings.TrimSpace(value)

	if len(s) == len(dateLayout) && s[4] == '-' && s[7] == '-' {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, invalidTime(value)
		}
		if endOfDay {
			d = d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		}
		return d, nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, invalidTime(value)
}

func invalidTime(value string) error {
	return fmt.Errorf("invalid datetime %q: use YYYY-MM-DD or ISO-8601 (e.g., 2025-01-01T12:30Z)", value)
}
