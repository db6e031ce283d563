package service

import (
	"context"
	"testing"
	"time"

	"bookly-api/core/utils"
	authentity "bookly-api/modules/auth/entity"
	availentity "bookly-api/modules/availability/entity"
	"bookly-api/modules/booking/entity"
	etentity "bookly-api/modules/eventtype/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	// Buenos Aires has a fixed -03:00 offset, so host wall clock + 3h = UTC.
	baTZ        = "America/Argentina/Buenos_Aires"
	testDate    = "2026-03-03"
	testSlug    = "intro-call"
	testHostTag = "alice"
)

type slotFixture struct {
	repo  *MockBookingRepository
	avail *MockAvailabilityService
	users *MockAuthRepository
	ets   *MockEventTypeRepository
	gen   *SlotGenerator
	host  *authentity.User
	et    *etentity.EventType
}

func newSlotFixture(t *testing.T, durationMin int, cfg *availentity.SchedulingConfig) *slotFixture {
	t.Helper()

	host := &authentity.User{Username: testHostTag, Timezone: baTZ, IsActive: true}
	host.ID = uuid.New()
	et := &etentity.EventType{HostID: host.ID, Slug: testSlug, Title: "Intro Call", DurationMinutes: durationMin, IsActive: true}
	et.ID = uuid.New()
	cfg.HostID = host.ID

	f := &slotFixture{
		repo:  new(MockBookingRepository),
		avail: new(MockAvailabilityService),
		users: new(MockAuthRepository),
		ets:   new(MockEventTypeRepository),
		host:  host,
		et:    et,
	}
	f.users.On("GetUserByUsername", mock.Anything, testHostTag).Return(host, nil)
	f.ets.On("GetByHostAndSlug", mock.Anything, host.ID, testSlug).Return(et, nil)
	f.avail.On("GetConfig", mock.Anything, host.ID).Return(cfg, nil)

	f.gen = NewSlotGenerator(f.repo, f.avail, f.users, f.ets, nil)
	// Two days before the tested date, well inside the booking window.
	f.gen.now = func() time.Time { return mustInstant(t, "2026-03-01", "09:00", baTZ) }
	return f
}

func mustInstant(t *testing.T, date, hhmm, tz string) time.Time {
	t.Helper()
	instant, err := utils.ToInstant(date, hhmm, tz)
	require.NoError(t, err)
	return instant
}

func TestGenerateSlots_FullDayNoBookings(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, testDate, baTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "17:00"}}, nil)
	f.repo.On("ListActiveByHostBetween", mock.Anything, f.host.ID, mock.Anything, mock.Anything).
		Return([]entity.Booking{}, nil)

	resp, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, testDate, "UTC")
	require.Nil(t, appErr)

	require.Len(t, resp.Slots, 8)
	assert.Equal(t, "09:00", resp.Slots[0].HostStart)
	assert.Equal(t, "16:00", resp.Slots[7].HostStart)
	// 09:00 in Buenos Aires is 12:00 UTC
	assert.Equal(t, mustInstant(t, testDate, "09:00", baTZ), resp.Slots[0].Start)
	assert.Equal(t, "12:00", resp.Slots[0].GuestStart)
	for i := 1; i < len(resp.Slots); i++ {
		assert.True(t, resp.Slots[i-1].Start.Before(resp.Slots[i].Start), "slots must be chronological")
	}
}

func TestGenerateSlots_ExistingBookingExcluded(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, testDate, baTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "13:00"}}, nil)
	f.repo.On("ListActiveByHostBetween", mock.Anything, f.host.ID, mock.Anything, mock.Anything).
		Return([]entity.Booking{{
			StartTime: mustInstant(t, testDate, "10:00", baTZ),
			EndTime:   mustInstant(t, testDate, "11:00", baTZ),
			Status:    entity.BookingStatusConfirmed,
		}}, nil)

	resp, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, testDate, "UTC")
	require.Nil(t, appErr)

	starts := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.HostStart)
	}
	assert.Equal(t, []string{"09:00", "11:00", "12:00"}, starts)
}

func TestGenerateSlots_PendingPaymentBlocksToo(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, testDate, baTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "11:00"}}, nil)
	f.repo.On("ListActiveByHostBetween", mock.Anything, f.host.ID, mock.Anything, mock.Anything).
		Return([]entity.Booking{{
			StartTime: mustInstant(t, testDate, "09:00", baTZ),
			EndTime:   mustInstant(t, testDate, "10:00", baTZ),
			Status:    entity.BookingStatusPendingPayment,
		}}, nil)

	resp, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, testDate, "UTC")
	require.Nil(t, appErr)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "10:00", resp.Slots[0].HostStart)
}

func TestGenerateSlots_MinNoticeSkipsButContinues(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MinNoticeMin: 60, MaxDaysInAdvance: 60})
	// 08:30 on the booked date itself: 09:00 violates the one hour notice,
	// 10:00 and later do not.
	f.gen.now = func() time.Time { return mustInstant(t, testDate, "08:30", baTZ) }
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, testDate, baTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "12:00"}}, nil)
	f.repo.On("ListActiveByHostBetween", mock.Anything, f.host.ID, mock.Anything, mock.Anything).
		Return([]entity.Booking{}, nil)

	resp, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, testDate, "UTC")
	require.Nil(t, appErr)

	starts := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.HostStart)
	}
	assert.Equal(t, []string{"10:00", "11:00"}, starts)
}

func TestGenerateSlots_BuffersExpandCandidatesOnly(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{BufferBeforeMin: 10, BufferAfterMin: 10, MaxDaysInAdvance: 60})
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, testDate, baTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "14:00"}}, nil)
	// Booking 09:50-10:50. Candidate 09:00 grows to [08:50, 10:10) and
	// collides. Candidate 10:00 collides outright. Candidate 11:00 grows to
	// [10:50, 12:10): it starts exactly where the booking ends, so the
	// half-open check admits it.
	f.repo.On("ListActiveByHostBetween", mock.Anything, f.host.ID, mock.Anything, mock.Anything).
		Return([]entity.Booking{{
			StartTime: mustInstant(t, testDate, "09:50", baTZ),
			EndTime:   mustInstant(t, testDate, "10:50", baTZ),
			Status:    entity.BookingStatusConfirmed,
		}}, nil)

	resp, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, testDate, "UTC")
	require.Nil(t, appErr)

	starts := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.HostStart)
	}
	assert.Equal(t, []string{"11:00", "12:00", "13:00"}, starts)
}

func TestGenerateSlots_DateOutsideWindowIsEmpty(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 1})

	resp, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, testDate, "UTC")
	require.Nil(t, appErr)
	assert.Empty(t, resp.Slots)
	f.avail.AssertNotCalled(t, "ResolveDayIntervals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateSlots_PastDateIsEmpty(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})
	f.gen.now = func() time.Time { return mustInstant(t, "2026-03-10", "09:00", baTZ) }

	resp, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, testDate, "UTC")
	require.Nil(t, appErr)
	assert.Empty(t, resp.Slots)
}

func TestGenerateSlots_GuestTimezoneRendering(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, testDate, baTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "10:00"}, {StartTime: "22:00", EndTime: "23:00"}}, nil)
	f.repo.On("ListActiveByHostBetween", mock.Anything, f.host.ID, mock.Anything, mock.Anything).
		Return([]entity.Booking{}, nil)

	resp, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, testDate, "Asia/Tokyo")
	require.Nil(t, appErr)
	require.Len(t, resp.Slots, 2)

	// 09:00 -03 = 12:00 UTC = 21:00 in Tokyo, same calendar date.
	assert.Equal(t, "21:00", resp.Slots[0].GuestStart)
	assert.Equal(t, testDate, resp.Slots[0].GuestDate)
	// 22:00 -03 = 01:00 UTC next day = 10:00 in Tokyo on March 4th.
	assert.Equal(t, "10:00", resp.Slots[1].GuestStart)
	assert.Equal(t, "2026-03-04", resp.Slots[1].GuestDate)
}

func TestGenerateSlots_ShortDurationPacksWindow(t *testing.T) {
	f := newSlotFixture(t, 30, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, testDate, baTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "10:45"}}, nil)
	f.repo.On("ListActiveByHostBetween", mock.Anything, f.host.ID, mock.Anything, mock.Anything).
		Return([]entity.Booking{}, nil)

	resp, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, testDate, "UTC")
	require.Nil(t, appErr)

	// A trailing partial slot (10:30-11:00) does not fit a 10:45 close.
	starts := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.HostStart)
	}
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, starts)
}

func TestGenerateSlots_FallBackDayProbesFullLocalDay(t *testing.T) {
	const nyTZ = "America/New_York"
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})
	f.host.Timezone = nyTZ
	f.gen.now = func() time.Time { return mustInstant(t, "2026-10-30", "09:00", nyTZ) }
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, "2026-11-01", nyTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "10:00"}}, nil)

	var probeFrom, probeTo time.Time
	f.repo.On("ListActiveByHostBetween", mock.Anything, f.host.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			probeFrom = args.Get(2).(time.Time)
			probeTo = args.Get(3).(time.Time)
		}).
		Return([]entity.Booking{}, nil)

	_, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, "2026-11-01", "UTC")
	require.Nil(t, appErr)

	// Clocks fall back on this date, so the local day lasts 25 hours and the
	// fetch must reach the following local midnight, not dayStart+24h.
	assert.Equal(t, 25*time.Hour, probeTo.Sub(probeFrom))
	assert.True(t, probeTo.Equal(mustInstant(t, "2026-11-02", "00:00", nyTZ)))
}

func TestGenerateSlots_UnknownPageIsNotFound(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})
	f.users.ExpectedCalls = nil
	f.users.On("GetUserByUsername", mock.Anything, testHostTag).Return(nil, nil)

	_, appErr := f.gen.GenerateSlots(context.Background(), testHostTag, testSlug, testDate, "UTC")
	require.NotNil(t, appErr)
	assert.Equal(t, "booking page not found", appErr.Message)
}

func TestAvailableDays_OnlyDatesWithSlots(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})
	f.gen.now = func() time.Time { return mustInstant(t, "2026-02-01", "09:00", baTZ) }

	// Rules exist on two dates only; every other day of the month resolves
	// to nothing.
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, "2026-02-02", baTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "10:00"}}, nil)
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, "2026-02-10", baTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "10:00"}}, nil)
	f.avail.On("ResolveDayIntervals", mock.Anything, f.host.ID, mock.Anything, baTZ).
		Return([]availentity.DayInterval{}, nil)
	f.repo.On("ListActiveByHostBetween", mock.Anything, f.host.ID, mock.Anything, mock.Anything).
		Return([]entity.Booking{}, nil)

	resp, appErr := f.gen.AvailableDays(context.Background(), testHostTag, testSlug, "2026-02")
	require.Nil(t, appErr)
	assert.Equal(t, []string{"2026-02-02", "2026-02-10"}, resp.Days)
}

func TestAvailableDays_InvalidMonth(t *testing.T) {
	f := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})

	_, appErr := f.gen.AvailableDays(context.Background(), testHostTag, testSlug, "02-2026")
	require.NotNil(t, appErr)
}
