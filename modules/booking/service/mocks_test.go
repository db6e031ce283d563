package service

import (
	"context"
	"time"

	"bookly-api/core/errors"
	authentity "bookly-api/modules/auth/entity"
	availdto "bookly-api/modules/availability/dto"
	availentity "bookly-api/modules/availability/entity"
	"bookly-api/modules/booking/entity"
	etentity "bookly-api/modules/eventtype/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateWithConflictCheck(ctx context.Context, booking *entity.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByCancellationToken(ctx context.Context, token string) (*entity.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*entity.Booking, error) {
	args := m.Called(ctx, paymentRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListActiveByHostBetween(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]entity.Booking, error) {
	args := m.Called(ctx, hostID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByHost(ctx context.Context, hostID uuid.UUID, status string, from, to *time.Time) ([]entity.Booking, error) {
	args := m.Called(ctx, hostID, status, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id uuid.UUID, reason *string) (*entity.Booking, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) ConfirmPending(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) SetPaymentRef(ctx context.Context, id uuid.UUID, paymentRef string) error {
	args := m.Called(ctx, id, paymentRef)
	return args.Error(0)
}

func (m *MockBookingRepository) SetCalendarRefs(ctx context.Context, id uuid.UUID, eventID, meetingLink *string) error {
	args := m.Called(ctx, id, eventID, meetingLink)
	return args.Error(0)
}

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) GetWeeklySchedule(ctx context.Context, hostID uuid.UUID) ([]availentity.WeeklyRule, *errors.AppError) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, appErrOf(args.Get(1))
	}
	return args.Get(0).([]availentity.WeeklyRule), appErrOf(args.Get(1))
}

func (m *MockAvailabilityService) ReplaceWeeklySchedule(ctx context.Context, hostID uuid.UUID, req *availdto.ReplaceWeeklyScheduleRequest) *errors.AppError {
	return appErrOf(m.Called(ctx, hostID, req).Get(0))
}

func (m *MockAvailabilityService) SetOverrides(ctx context.Context, hostID uuid.UUID, req *availdto.SetOverridesRequest) *errors.AppError {
	return appErrOf(m.Called(ctx, hostID, req).Get(0))
}

func (m *MockAvailabilityService) DeleteOverrides(ctx context.Context, hostID uuid.UUID, date string) *errors.AppError {
	return appErrOf(m.Called(ctx, hostID, date).Get(0))
}

func (m *MockAvailabilityService) ListOverrides(ctx context.Context, hostID uuid.UUID, from, to string) ([]availentity.DateOverride, *errors.AppError) {
	args := m.Called(ctx, hostID, from, to)
	if args.Get(0) == nil {
		return nil, appErrOf(args.Get(1))
	}
	return args.Get(0).([]availentity.DateOverride), appErrOf(args.Get(1))
}

func (m *MockAvailabilityService) GetConfig(ctx context.Context, hostID uuid.UUID) (*availentity.SchedulingConfig, *errors.AppError) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, appErrOf(args.Get(1))
	}
	return args.Get(0).(*availentity.SchedulingConfig), appErrOf(args.Get(1))
}

func (m *MockAvailabilityService) UpdateConfig(ctx context.Context, hostID uuid.UUID, req *availdto.UpdateConfigRequest) (*availentity.SchedulingConfig, *errors.AppError) {
	args := m.Called(ctx, hostID, req)
	if args.Get(0) == nil {
		return nil, appErrOf(args.Get(1))
	}
	return args.Get(0).(*availentity.SchedulingConfig), appErrOf(args.Get(1))
}

func (m *MockAvailabilityService) EnsureDefaultConfig(ctx context.Context, hostID uuid.UUID) *errors.AppError {
	return appErrOf(m.Called(ctx, hostID).Get(0))
}

func (m *MockAvailabilityService) ResolveDayIntervals(ctx context.Context, hostID uuid.UUID, date string, hostTimezone string) ([]availentity.DayInterval, *errors.AppError) {
	args := m.Called(ctx, hostID, date, hostTimezone)
	if args.Get(0) == nil {
		return nil, appErrOf(args.Get(1))
	}
	return args.Get(0).([]availentity.DayInterval), appErrOf(args.Get(1))
}

func appErrOf(v any) *errors.AppError {
	if v == nil {
		return nil
	}
	return v.(*errors.AppError)
}

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) CreateUser(ctx context.Context, user *authentity.User) (*authentity.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentity.User), args.Error(1)
}

func (m *MockAuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*authentity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentity.User), args.Error(1)
}

func (m *MockAuthRepository) GetUserByUsername(ctx context.Context, username string) (*authentity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentity.User), args.Error(1)
}

func (m *MockAuthRepository) GetUserByEmail(ctx context.Context, email string) (*authentity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentity.User), args.Error(1)
}

type MockEventTypeRepository struct {
	mock.Mock
}

func (m *MockEventTypeRepository) Create(ctx context.Context, et *etentity.EventType) (*etentity.EventType, error) {
	args := m.Called(ctx, et)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*etentity.EventType), args.Error(1)
}

func (m *MockEventTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*etentity.EventType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*etentity.EventType), args.Error(1)
}

func (m *MockEventTypeRepository) GetByHostAndSlug(ctx context.Context, hostID uuid.UUID, slug string) (*etentity.EventType, error) {
	args := m.Called(ctx, hostID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*etentity.EventType), args.Error(1)
}

func (m *MockEventTypeRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]etentity.EventType, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]etentity.EventType), args.Error(1)
}

func (m *MockEventTypeRepository) Update(ctx context.Context, et *etentity.EventType) error {
	return m.Called(ctx, et).Error(0)
}

func (m *MockEventTypeRepository) SlugExists(ctx context.Context, hostID uuid.UUID, slug string) (bool, error) {
	args := m.Called(ctx, hostID, slug)
	return args.Bool(0), args.Error(1)
}

type MockPaymentCollaborator struct {
	mock.Mock
}

func (m *MockPaymentCollaborator) HasActiveConnection(ctx context.Context, hostID uuid.UUID) (bool, error) {
	args := m.Called(ctx, hostID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentCollaborator) CreateCheckoutSession(ctx context.Context, booking *entity.Booking, eventType *etentity.EventType, host *authentity.User) (string, string, error) {
	args := m.Called(ctx, booking, eventType, host)
	return args.String(0), args.String(1), args.Error(2)
}
