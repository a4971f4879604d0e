package normalization

import (
	"encoding/json"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// NormalizeDate converts the date field of a Fireflies transcript into a
// canonical UTC instant. Fireflies returns it as an epoch-millisecond number,
// a date string, or not at all; JSON decoding hands us float64, string, or
// nil. Unparsable input is the same as no date: nil, never an error.
func NormalizeDate(raw any) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return epochMillis(int64(v))
	case int64:
		return epochMillis(v)
	case int:
		return epochMillis(int64(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return epochMillis(int64(f))
		}
		return nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC()
				return &t
			}
		}
		return nil
	default:
		return nil
	}
}

func epochMillis(ms int64) *time.Time {
	t := time.UnixMilli(ms).UTC()
	return &t
}
