// Package dates holds the calendar arithmetic shared by the booking core.
// All stay ranges are half-open: [checkIn, checkOut) — the checkout day is
// free for a new arrival.
package dates

import "time"

const DayFormat = "2006-01-02"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights is the whole-day difference between two civil dates.
func Nights(checkIn, checkOut time.Time) int {
	return int(Midnight(checkOut).Sub(Midnight(checkIn)).Hours() / 24)
}

// Midnight truncates t to the start of its civil day, keeping the location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today is the current civil date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	return Midnight(now.In(loc))
}

// BeforeDay reports whether a's civil date precedes b's, ignoring the time of
// day and the location. ISO date strings compare correctly byte-wise.
func BeforeDay(a, b time.Time) bool {
	return a.Format(DayFormat) < b.Format(DayFormat)
}

// SameDay reports whether a and b fall on the same civil date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
