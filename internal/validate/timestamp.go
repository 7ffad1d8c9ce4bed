package validate

import (
	"fmt"
	"strings"
	"time"
)

// ISO-8601 shapes accepted for seed timestamps, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// TimestampWarning reports an unparsable timestamp that was replaced by the current time.
type TimestampWarning struct {
	Field    string
	Value    string
	Fallback time.Time
}

func (w *TimestampWarning) Error() string {
	return fmt.Sprintf("%s: invalid timestamp %q, using %s", w.Field, w.Value, w.Fallback.Format(time.RFC3339))
}

// ParseTimestamp never fails: absent input yields now() with no warning,
// unparsable input yields now() with a warning.
func ParseTimestamp(field, raw string, now func() time.Time) (time.Time, *TimestampWarning) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return now(), nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	fallback := now()
	return fallback, &TimestampWarning{Field: field, Value: raw, Fallback: fallback}
}
