package utils

import (
	"fmt"
	"time"

	"bookly-api/core/constants"
)

// ToInstant interprets a wall-clock HH:mm on the given calendar date as local
// to the named IANA timezone and returns the equivalent absolute instant in
// UTC. Around DST transitions the offset is whatever the timezone database
// resolves to.
func ToInstant(date string, hhmm string, timezone string) (time.Time, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	day, err := time.ParseInLocation(constants.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	tod, err := time.Parse(constants.HHMMLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}

	local := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, loc)
	return local.UTC(), nil
}

// FromInstant converts an absolute instant to the calendar date and HH:mm
// wall-clock time in the named timezone.
func FromInstant(instant time.Time, timezone string) (date string, hhmm string, err error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	local := instant.In(loc)
	return local.Format(constants.DateLayout), local.Format(constants.HHMMLayout), nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching intervals do not overlap.
//
// Both the slot generator and the booking transaction use this single
// implementation for conflict detection.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
