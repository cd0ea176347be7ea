package services

import "time"

// ResolveWeek maps a date to its Monday-to-Sunday week window. The returned
// week start is the Monday on or before the date at midnight UTC, and the
// week end is six days later.
func ResolveWeek(day time.Time) (time.Time, time.Time) {
	d := dateOnly(day)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	start := d.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// dateOnly normalizes a timestamp to midnight UTC, the canonical form for
// all stored dates.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
