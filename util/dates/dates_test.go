package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

func d(day string) time.Time {
	t, err := time.Parse(dates.DayFormat, day)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps_HalfOpen(t *testing.T) {
	// [1st,5th) vs [5th,8th): checkout day is free for a new arrival.
	require.False(t, dates.Overlaps(d("2026-06-01"), d("2026-06-05"), d("2026-06-05"), d("2026-06-08")))
	require.False(t, dates.Overlaps(d("2026-06-05"), d("2026-06-08"), d("2026-06-01"), d("2026-06-05")))

	require.True(t, dates.Overlaps(d("2026-06-01"), d("2026-06-05"), d("2026-06-04"), d("2026-06-08")))
	require.True(t, dates.Overlaps(d("2026-06-01"), d("2026-06-05"), d("2026-06-02"), d("2026-06-03")))
	require.True(t, dates.Overlaps(d("2026-06-01"), d("2026-06-05"), d("2026-06-01"), d("2026-06-05")))
}

func TestNights(t *testing.T) {
	require.Equal(t, 1, dates.Nights(d("2026-06-01"), d("2026-06-02")))
	require.Equal(t, 4, dates.Nights(d("2026-06-01"), d("2026-06-05")))
	require.Equal(t, 0, dates.Nights(d("2026-06-01"), d("2026-06-01")))
}

func TestToday_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 03:00 UTC is still the previous evening in New York.
	now := time.Date(2026, 6, 10, 3, 0, 0, 0, time.UTC)
	today := dates.Today(now, loc)
	require.Equal(t, "2026-06-09", today.Format(dates.DayFormat))
	require.Equal(t, 0, today.Hour())
}

func TestBeforeDay_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2026, 6, 1, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, 6, 2, 0, 1, 0, 0, time.UTC)
	require.True(t, dates.BeforeDay(late, early))
	require.False(t, dates.BeforeDay(early, late))
	require.False(t, dates.BeforeDay(late, late))
}

func TestSameDay(t *testing.T) {
	require.True(t, dates.SameDay(
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 1, 23, 0, 0, 0, time.UTC),
	))
	require.False(t, dates.SameDay(d("2026-06-01"), d("2026-06-02")))
}
