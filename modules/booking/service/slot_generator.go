package service

import (
	"context"
	"encoding/json"
	"time"

	"bookly-api/core/cache"
	"bookly-api/core/constants"
	"bookly-api/core/errors"
	"bookly-api/core/logger"
	"bookly-api/core/utils"
	authentity "bookly-api/modules/auth/entity"
	authrepo "bookly-api/modules/auth/repository"
	availservice "bookly-api/modules/availability/service"
	"bookly-api/modules/booking/dto"
	"bookly-api/modules/booking/repository"
	etentity "bookly-api/modules/eventtype/entity"
	etrepo "bookly-api/modules/eventtype/repository"
)

// SlotGenerator computes offered start times for a host's event type on a
// given date. It is the read side of booking: everything here works on a
// snapshot, and the creation transaction re-checks conflicts authoritatively.
type SlotGenerator struct {
	bookings     repository.BookingRepositoryInterface
	availability availservice.AvailabilityServiceInterface
	users        authrepo.AuthRepositoryInterface
	eventTypes   etrepo.EventTypeRepositoryInterface
	cache        cache.Cache

	// now is swappable in tests
	now func() time.Time
}

func NewSlotGenerator(
	bookings repository.BookingRepositoryInterface,
	availability availservice.AvailabilityServiceInterface,
	users authrepo.AuthRepositoryInterface,
	eventTypes etrepo.EventTypeRepositoryInterface,
	c cache.Cache,
) *SlotGenerator {
	return &SlotGenerator{
		bookings:     bookings,
		availability: availability,
		users:        users,
		eventTypes:   eventTypes,
		cache:        c,
		now:          time.Now,
	}
}

// resolveTarget loads the host and event type behind a public booking page.
// Inactive hosts and event types are reported as plain not-found so the
// public API does not reveal which part is missing.
func (g *SlotGenerator) resolveTarget(ctx context.Context, username, eventSlug string) (*authentity.User, *etentity.EventType, *errors.AppError) {
	host, err := g.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to load host", err)
	}
	if host == nil || !host.IsActive {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "booking page not found", nil)
	}
	eventType, err := g.eventTypes.GetByHostAndSlug(ctx, host.ID, eventSlug)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event type", err)
	}
	if eventType == nil || !eventType.IsActive {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "booking page not found", nil)
	}
	return host, eventType, nil
}

// GenerateSlots returns the free start times for one date, rendered in the
// guest's timezone. A date outside the host's booking window yields an empty
// list, not an error.
func (g *SlotGenerator) GenerateSlots(ctx context.Context, username, eventSlug, date, guestTimezone string) (*dto.SlotsResponse, *errors.AppError) {
	if _, err := time.Parse(constants.DateLayout, date); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid date, expected YYYY-MM-DD", err)
	}
	guestLoc, err := time.LoadLocation(guestTimezone)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown timezone", err)
	}

	host, eventType, appErr := g.resolveTarget(ctx, username, eventSlug)
	if appErr != nil {
		return nil, appErr
	}

	resp := &dto.SlotsResponse{Date: date, Timezone: guestTimezone, Slots: []dto.Slot{}}

	slots, appErr := g.slotsForDate(ctx, host, eventType, date, guestLoc)
	if appErr != nil {
		return nil, appErr
	}
	resp.Slots = slots
	return resp, nil
}

func (g *SlotGenerator) slotsForDate(ctx context.Context, host *authentity.User, eventType *etentity.EventType, date string, guestLoc *time.Location) ([]dto.Slot, *errors.AppError) {
	config, appErr := g.availability.GetConfig(ctx, host.ID)
	if appErr != nil {
		return nil, appErr
	}

	hostLoc, err := time.LoadLocation(host.Timezone)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "host timezone is invalid", err)
	}

	now := g.now()
	day, _ := time.ParseInLocation(constants.DateLayout, date, hostLoc)
	today := time.Date(now.In(hostLoc).Year(), now.In(hostLoc).Month(), now.In(hostLoc).Day(), 0, 0, 0, 0, hostLoc)
	lastDay := today.AddDate(0, 0, config.MaxDaysInAdvance)
	if day.Before(today) || day.After(lastDay) {
		return []dto.Slot{}, nil
	}

	intervals, appErr := g.availability.ResolveDayIntervals(ctx, host.ID, date, host.Timezone)
	if appErr != nil {
		return nil, appErr
	}
	if len(intervals) == 0 {
		return []dto.Slot{}, nil
	}

	// One fetch covers every interval of the day; buffers extend the probe
	// range so bookings just outside the day still count.
	dayStart, err := utils.ToInstant(date, "00:00", host.Timezone)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to anchor day", err)
	}
	// AddDate on the local date keeps DST transition days at their real
	// length; a fixed 24h would miss the repeated hour on fall-back days.
	dayEnd := dayStart.In(hostLoc).AddDate(0, 0, 1)
	probeFrom := dayStart.Add(-time.Duration(config.BufferBeforeMin) * time.Minute)
	probeTo := dayEnd.Add(time.Duration(config.BufferAfterMin) * time.Minute)
	existing, err := g.bookings.ListActiveByHostBetween(ctx, host.ID, probeFrom, probeTo)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load bookings", err)
	}

	duration := time.Duration(eventType.DurationMinutes) * time.Minute
	earliest := now.Add(time.Duration(config.MinNoticeMin) * time.Minute)
	bufBefore := time.Duration(config.BufferBeforeMin) * time.Minute
	bufAfter := time.Duration(config.BufferAfterMin) * time.Minute

	slots := []dto.Slot{}
	for _, interval := range intervals {
		windowStart, err := utils.ToInstant(date, interval.StartTime, host.Timezone)
		if err != nil {
			continue
		}
		windowEnd, err := utils.ToInstant(date, interval.EndTime, host.Timezone)
		if err != nil {
			continue
		}

		for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(duration) {
			end := start.Add(duration)

			// Min notice skips individual candidates; later ones in the
			// same window may still qualify.
			if start.Before(earliest) {
				continue
			}

			// Buffers expand the candidate, never the stored bookings.
			conflict := false
			for i := range existing {
				if utils.Overlaps(start.Add(-bufBefore), end.Add(bufAfter), existing[i].StartTime, existing[i].EndTime) {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}

			guestLocal := start.In(guestLoc)
			slots = append(slots, dto.Slot{
				Start:      start,
				End:        end,
				HostStart:  start.In(hostLoc).Format(constants.HHMMLayout),
				GuestStart: guestLocal.Format(constants.HHMMLayout),
				GuestDate:  guestLocal.Format(constants.DateLayout),
			})
		}
	}
	return slots, nil
}

// AvailableDays lists the dates of a month that still have at least one free
// slot. Results are cached briefly; creation and cancellation invalidate the
// host's entries.
func (g *SlotGenerator) AvailableDays(ctx context.Context, username, eventSlug, month string) (*dto.AvailableDaysResponse, *errors.AppError) {
	monthStart, err := time.Parse(constants.MonthLayout, month)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid month, expected YYYY-MM", err)
	}

	host, eventType, appErr := g.resolveTarget(ctx, username, eventSlug)
	if appErr != nil {
		return nil, appErr
	}

	cacheKey := constants.RedisKeyAvailableDays + host.ID.String() + ":" + eventType.ID.String() + ":" + month
	if g.cache != nil {
		if cached, ok, err := g.cache.Get(ctx, cacheKey); err == nil && ok {
			var days []string
			if json.Unmarshal([]byte(cached), &days) == nil {
				return &dto.AvailableDaysResponse{Month: month, Days: days}, nil
			}
		}
	}

	hostLoc, err := time.LoadLocation(host.Timezone)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "host timezone is invalid", err)
	}

	days := []string{}
	for d := monthStart; d.Month() == monthStart.Month(); d = d.AddDate(0, 0, 1) {
		date := d.Format(constants.DateLayout)
		slots, appErr := g.slotsForDate(ctx, host, eventType, date, hostLoc)
		if appErr != nil {
			return nil, appErr
		}
		if len(slots) > 0 {
			days = append(days, date)
		}
	}

	if g.cache != nil {
		if payload, err := json.Marshal(days); err == nil {
			if err := g.cache.Set(ctx, cacheKey, string(payload), constants.AvailableDaysCacheTTL); err != nil {
				logger.Warn("SlotGenerator:AvailableDays: cache write failed", err)
			}
		}
	}
	return &dto.AvailableDaysResponse{Month: month, Days: days}, nil
}

// InvalidateAvailableDays drops every cached month for the host.
func (g *SlotGenerator) InvalidateAvailableDays(ctx context.Context, hostID string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.DeleteByPrefix(ctx, constants.RedisKeyAvailableDays+hostID); err != nil {
		logger.Warn("SlotGenerator:InvalidateAvailableDays: cache invalidation failed", err)
	}
}
