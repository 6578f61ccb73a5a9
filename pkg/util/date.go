package util

import (
	"fmt"
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// ParseBirthDate parses a calendar date in YYYY-MM-DD or YYYY.MM.DD form.
func ParseBirthDate(s string) (year, month, day int, err error) {
	for _, layout := range []string{"2006-01-02", "2006.01.02", "20060102"} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Year(), int(t.Month()), t.Day(), nil
		}
	}
	return 0, 0, 0, fmt.Errorf("invalid birth date %q", s)
}

// ParseBirthTime parses a wall-clock time in HH:MM or HH:MM:SS form.
func ParseBirthTime(s string) (hour, minute int, err error) {
	for _, layout := range []string{"15:04", "15:04:05", "1504"} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("invalid birth time %q", s)
}

// CivilToInstant combines a calendar date and wall-clock time in the given zone.
func CivilToInstant(year, month, day, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
}
