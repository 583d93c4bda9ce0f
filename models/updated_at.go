package models

import (
	"strings"
	"time"
)

// legacyZoneSuffix is appended by the old admin tool to hand-written times.
const legacyZoneSuffix = " UTC+5"

var legacyLayouts = []string{
	"Jan 2, 2006, 15:04:05",
	"Jan 2, 2006, 3:04:05 PM",
	"January 2, 2006, 15:04:05",
	"January 2, 2006 at 3:04:05 PM",
	"January 2, 2006 at 15:04:05",
	"1/2/2006, 3:04:05 PM",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseUpdatedAt normalizes the room-update time to an instant. It accepts a
// native time, a Firestore-style {seconds, nanoseconds} object decoded from
// JSON, an RFC3339 string, or a legacy string whose " UTC+5" suffix is
// stripped and the remainder read as wall-clock time in loc. The second
// result is false when v carries no usable time.
func ParseUpdatedAt(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		return parseUpdatedAtString(t, loc)
	case map[string]any:
		return parseTimestampObject(t)
	}
	return time.Time{}, false
}

func parseUpdatedAtString(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(strings.Replace(raw, legacyZoneSuffix, "", 1))
	if s == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, true
	}
	for _, layout := range legacyLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseTimestampObject(m map[string]any) (time.Time, bool) {
	secs, ok := numberField(m, "seconds", "_seconds")
	if !ok {
		return time.Time{}, false
	}
	nanos, _ := numberField(m, "nanoseconds", "_nanoseconds")
	ts := time.Unix(int64(secs), int64(nanos))
	return ts, !ts.IsZero()
}

func numberField(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch n := m[k].(type) {
		case float64:
			return n, true
		case int64:
			return float64(n), true
		case int:
			return float64(n), true
		}
	}
	return 0, false
}
