package normalize

import (
	"strings"
	"time"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// timestampLayouts are tried in order. RFC 3339 covers the canonical feed
// format with Z or colon-separated offsets, the second layout covers ISO 8601
// compact offsets, and the remaining layouts tolerate naive timestamps, which
// are interpreted as UTC. Go accepts fractional seconds after the seconds
// element regardless of layout.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp interprets an ISO 8601 timestamp string and returns the
// instant in UTC. Returns a DateParseError when no layout matches.
func ParseTimestamp(file, field, value string) (time.Time, error) {
	s := strings.TrimSpace(value)

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, &orderpipe.DateParseError{File: file, Field: field, Value: value}
}
