package util

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// LongDate renders dates the way the dashboard prints them, e.g. "March 5, 2025".
func LongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// ShortDate renders dates as M/D/YYYY.
func ShortDate(t time.Time) string {
	return t.Format("1/2/2006")
}

// CalendarDay drops the clock and zone of t, keeping its local calendar date at midnight UTC.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
