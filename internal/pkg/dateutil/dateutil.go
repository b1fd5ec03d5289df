// Package dateutil is the single place that understands the loose date
// strings flowing through the import and export paths: SQL datetimes,
// ISO-8601 timestamps and bare dates. Both paths must agree on the
// accepted formats and their precedence, so neither is allowed to carry
// its own parser.
package dateutil

import (
	"strings"
	"time"
)

// Ordered: first match wins. SQL datetime before ISO, ISO before
// date-only, then the looser fallbacks.
var layouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006-01",
}

// Parse applies the accepted layouts in order. Layouts without an
// explicit zone are interpreted as UTC, matching how the exported
// archives have always been written.
func Parse(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func ToISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func NowISO() string {
	return ToISO(time.Now())
}

// MonthBucket returns the YYYY-MM bucket for an export entry, falling
// back to the current month when the value does not parse.
func MonthBucket(value string) string {
	if t, ok := Parse(value); ok {
		return t.Format("2006-01")
	}
	return time.Now().UTC().Format("2006-01")
}
