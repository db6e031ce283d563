package service

import (
	"context"
	"testing"
	"time"

	"bookly-api/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) GetWeeklyRulesByHost(ctx context.Context, hostID uuid.UUID) ([]entity.WeeklyRule, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]entity.WeeklyRule), args.Error(1)
}

func (m *MockAvailabilityRepository) ReplaceWeeklyRules(ctx context.Context, hostID uuid.UUID, rules []entity.WeeklyRule) error {
	args := m.Called(ctx, hostID, rules)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) GetOverridesByHostAndDate(ctx context.Context, hostID uuid.UUID, date time.Time) ([]entity.DateOverride, error) {
	args := m.Called(ctx, hostID, date)
	return args.Get(0).([]entity.DateOverride), args.Error(1)
}

func (m *MockAvailabilityRepository) ReplaceOverridesForDate(ctx context.Context, hostID uuid.UUID, date time.Time, overrides []entity.DateOverride) error {
	args := m.Called(ctx, hostID, date, overrides)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) DeleteOverridesForDate(ctx context.Context, hostID uuid.UUID, date time.Time) error {
	args := m.Called(ctx, hostID, date)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) ListOverridesByHost(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]entity.DateOverride, error) {
	args := m.Called(ctx, hostID, from, to)
	return args.Get(0).([]entity.DateOverride), args.Error(1)
}

func (m *MockAvailabilityRepository) GetConfigByHost(ctx context.Context, hostID uuid.UUID) (*entity.SchedulingConfig, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SchedulingConfig), args.Error(1)
}

func (m *MockAvailabilityRepository) UpsertConfig(ctx context.Context, cfg *entity.SchedulingConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

// 2026-03-02 is a Monday.
const monday = "2026-03-02"

func TestResolveDayIntervals_WeeklyRuleApplies(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := NewAvailabilityService(repo)
	hostID := uuid.New()

	repo.On("GetOverridesByHostAndDate", mock.Anything, hostID, mock.Anything).Return([]entity.DateOverride{}, nil)
	repo.On("GetWeeklyRulesByHost", mock.Anything, hostID).Return([]entity.WeeklyRule{
		{HostID: hostID, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
		{HostID: hostID, DayOfWeek: 1, StartTime: "14:00", EndTime: "17:00"},
		{HostID: hostID, DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00"},
	}, nil)

	intervals, appErr := svc.ResolveDayIntervals(context.Background(), hostID, monday, "America/Argentina/Buenos_Aires")
	require.Nil(t, appErr)
	assert.Equal(t, []entity.DayInterval{
		{StartTime: "09:00", EndTime: "12:00"},
		{StartTime: "14:00", EndTime: "17:00"},
	}, intervals)
}

func TestResolveDayIntervals_BlockedOverrideWins(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := NewAvailabilityService(repo)
	hostID := uuid.New()

	// Blocked row plus a custom window on the same date: block wins.
	repo.On("GetOverridesByHostAndDate", mock.Anything, hostID, mock.Anything).Return([]entity.DateOverride{
		{HostID: hostID, IsBlocked: false, StartTime: strPtr("10:00"), EndTime: strPtr("11:00")},
		{HostID: hostID, IsBlocked: true},
	}, nil)

	intervals, appErr := svc.ResolveDayIntervals(context.Background(), hostID, monday, "UTC")
	require.Nil(t, appErr)
	assert.Empty(t, intervals)
	repo.AssertNotCalled(t, "GetWeeklyRulesByHost", mock.Anything, mock.Anything)
}

func TestResolveDayIntervals_OverrideReplacesWeeklyRule(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := NewAvailabilityService(repo)
	hostID := uuid.New()

	repo.On("GetOverridesByHostAndDate", mock.Anything, hostID, mock.Anything).Return([]entity.DateOverride{
		{HostID: hostID, IsBlocked: false, StartTime: strPtr("10:00"), EndTime: strPtr("11:00")},
	}, nil)

	intervals, appErr := svc.ResolveDayIntervals(context.Background(), hostID, monday, "UTC")
	require.Nil(t, appErr)
	// Replacement, not a merge with the 09:00-17:00 weekly rule.
	assert.Equal(t, []entity.DayInterval{{StartTime: "10:00", EndTime: "11:00"}}, intervals)
	repo.AssertNotCalled(t, "GetWeeklyRulesByHost", mock.Anything, mock.Anything)
}

func TestResolveDayIntervals_NoRulesIsEmptyNotError(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := NewAvailabilityService(repo)
	hostID := uuid.New()

	repo.On("GetOverridesByHostAndDate", mock.Anything, hostID, mock.Anything).Return([]entity.DateOverride{}, nil)
	repo.On("GetWeeklyRulesByHost", mock.Anything, hostID).Return([]entity.WeeklyRule{
		{HostID: hostID, DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00"},
	}, nil)

	intervals, appErr := svc.ResolveDayIntervals(context.Background(), hostID, monday, "UTC")
	require.Nil(t, appErr)
	assert.Empty(t, intervals)
}

func TestResolveDayIntervals_WeekdayComputedInHostTimezone(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := NewAvailabilityService(repo)
	hostID := uuid.New()

	repo.On("GetOverridesByHostAndDate", mock.Anything, hostID, mock.Anything).Return([]entity.DateOverride{}, nil)
	repo.On("GetWeeklyRulesByHost", mock.Anything, hostID).Return([]entity.WeeklyRule{
		{HostID: hostID, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
	}, nil)

	// The calendar date is the same in every timezone; Monday stays Monday
	// in Auckland even though Auckland is far ahead of UTC.
	intervals, appErr := svc.ResolveDayIntervals(context.Background(), hostID, monday, "Pacific/Auckland")
	require.Nil(t, appErr)
	assert.Len(t, intervals, 1)
}

func TestResolveDayIntervals_InvalidInputs(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := NewAvailabilityService(repo)
	hostID := uuid.New()

	_, appErr := svc.ResolveDayIntervals(context.Background(), hostID, monday, "Nowhere/Special")
	require.NotNil(t, appErr)

	_, appErr = svc.ResolveDayIntervals(context.Background(), hostID, "03/02/2026", "UTC")
	require.NotNil(t, appErr)
}
