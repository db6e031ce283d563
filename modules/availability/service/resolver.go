package service

import (
	"context"
	"time"

	"bookly-api/core/constants"
	"bookly-api/core/errors"
	"bookly-api/modules/availability/entity"

	"github.com/google/uuid"
)

// ResolveDayIntervals computes the bookable wall-clock windows for one
// calendar date in the host's timezone.
//
// Precedence: a blocked override wins outright; otherwise non-blocked
// overrides replace the weekly rules for that date; otherwise the weekly
// rules whose weekday matches apply. No matches is a normal empty day.
func (s *AvailabilityService) ResolveDayIntervals(ctx context.Context, hostID uuid.UUID, date string, hostTimezone string) ([]entity.DayInterval, *errors.AppError) {
	loc, err := time.LoadLocation(hostTimezone)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid host timezone", err)
	}
	day, err := time.ParseInLocation(constants.DateLayout, date, loc)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid date, expected YYYY-MM-DD", err)
	}

	// The date column is a plain calendar date; key it in UTC regardless of
	// the host's offset.
	dateKey, _ := time.Parse(constants.DateLayout, date)

	overrides, errGet := s.repo.GetOverridesByHostAndDate(ctx, hostID, dateKey)
	if errGet != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load overrides", errGet)
	}

	if len(overrides) > 0 {
		for _, o := range overrides {
			if o.IsBlocked {
				return []entity.DayInterval{}, nil
			}
		}
		intervals := make([]entity.DayInterval, 0, len(overrides))
		for _, o := range overrides {
			if o.StartTime == nil || o.EndTime == nil {
				continue
			}
			intervals = append(intervals, entity.DayInterval{StartTime: *o.StartTime, EndTime: *o.EndTime})
		}
		return intervals, nil
	}

	rules, errGet := s.repo.GetWeeklyRulesByHost(ctx, hostID)
	if errGet != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load weekly rules", errGet)
	}

	// Weekday in the host's timezone, Sunday = 0.
	weekday := int(day.Weekday())

	intervals := []entity.DayInterval{}
	for _, r := range rules {
		if r.DayOfWeek == weekday {
			intervals = append(intervals, entity.DayInterval{StartTime: r.StartTime, EndTime: r.EndTime})
		}
	}
	return intervals, nil
}
