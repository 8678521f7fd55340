package query

import (
	"strings"
	"time"
)

// Accepted wire formats for date parameters, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SafeRange resolves a start/end pair the way every dashboard query does:
// missing or malformed start falls back to 7 days before now, missing or
// malformed end falls back to now, then start is normalized to 00:00:00.000
// and end to 23:59:59.999 in loc.
func SafeRange(start, end string, loc *time.Location, now time.Time) (time.Time, time.Time) {
	s, ok := ParseTime(start, loc)
	if !ok {
		s = now.AddDate(0, 0, -7)
	}
	e, ok := ParseTime(end, loc)
	if !ok {
		e = now
	}
	s = s.In(loc)
	e = e.In(loc)
	startDay := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
	endDay := time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return startDay, endDay
}
