package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInstant(t *testing.T) {
	// Buenos Aires is UTC-3 year round.
	instant, err := ToInstant("2026-03-02", "09:00", "America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), instant)
}

func TestToInstant_InvalidInput(t *testing.T) {
	_, err := ToInstant("2026-03-02", "09:00", "Mars/Olympus_Mons")
	assert.Error(t, err)

	_, err = ToInstant("02/03/2026", "09:00", "UTC")
	assert.Error(t, err)

	_, err = ToInstant("2026-03-02", "9am", "UTC")
	assert.Error(t, err)
}

func TestFromInstant(t *testing.T) {
	instant := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	date, hhmm, err := FromInstant(instant, "America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", date)
	assert.Equal(t, "09:00", hhmm)

	date, hhmm, err = FromInstant(instant, "Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", date)
	assert.Equal(t, "19:00", hhmm)
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		date string
		hhmm string
		tz   string
	}{
		{"2026-03-02", "09:00", "America/Argentina/Buenos_Aires"},
		{"2026-07-15", "23:30", "Asia/Ho_Chi_Minh"},
		{"2026-01-01", "00:00", "UTC"},
		{"2026-06-21", "12:45", "Europe/Madrid"},
		{"2026-11-30", "08:15", "America/New_York"},
	}

	for _, tc := range cases {
		instant, err := ToInstant(tc.date, tc.hhmm, tc.tz)
		require.NoError(t, err)

		date, hhmm, err := FromInstant(instant, tc.tz)
		require.NoError(t, err)
		assert.Equal(t, tc.date, date, "date round trip for %s %s %s", tc.date, tc.hhmm, tc.tz)
		assert.Equal(t, tc.hhmm, hhmm, "time round trip for %s %s %s", tc.date, tc.hhmm, tc.tz)
	}
}

func TestToInstant_DSTSpringForward(t *testing.T) {
	// US Eastern jumps 02:00 -> 03:00 on 2026-03-08. The library resolves
	// the nonexistent local time; we only require it maps somewhere sane
	// and stays within the day.
	instant, err := ToInstant("2026-03-08", "02:30", "America/New_York")
	require.NoError(t, err)

	date, _, err := FromInstant(instant, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08", date)
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", at(0), at(30), at(0), at(30), true},
		{"contained", at(0), at(60), at(15), at(30), true},
		{"partial", at(0), at(30), at(15), at(45), true},
		{"touching end-to-start", at(0), at(30), at(30), at(60), false},
		{"touching start-to-end", at(30), at(60), at(0), at(30), false},
		{"disjoint", at(0), at(30), at(45), at(60), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}
