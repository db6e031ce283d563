package service

import (
	"context"
	"testing"
	"time"

	"bookly-api/core/queue"
	authentity "bookly-api/modules/auth/entity"
	bookingentity "bookly-api/modules/booking/entity"
	etentity "bookly-api/modules/eventtype/entity"
	"bookly-api/modules/workflow/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWorkflowRepo struct {
	mock.Mock
}

func (m *mockWorkflowRepo) Create(ctx context.Context, wf *entity.Workflow) (*entity.Workflow, error) {
	args := m.Called(ctx, wf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Workflow), args.Error(1)
}

func (m *mockWorkflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Workflow), args.Error(1)
}

func (m *mockWorkflowRepo) ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.Workflow, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Workflow), args.Error(1)
}

func (m *mockWorkflowRepo) ListActiveByTrigger(ctx context.Context, hostID uuid.UUID, trigger string) ([]entity.Workflow, error) {
	args := m.Called(ctx, hostID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Workflow), args.Error(1)
}

func (m *mockWorkflowRepo) Update(ctx context.Context, wf *entity.Workflow) error {
	return m.Called(ctx, wf).Error(0)
}

func (m *mockWorkflowRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) CreateWithConflictCheck(ctx context.Context, b *bookingentity.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookingentity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingentity.Booking), args.Error(1)
}

func (m *mockBookingRepo) GetByCancellationToken(ctx context.Context, token string) (*bookingentity.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingentity.Booking), args.Error(1)
}

func (m *mockBookingRepo) GetByPaymentRef(ctx context.Context, ref string) (*bookingentity.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingentity.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListActiveByHostBetween(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]bookingentity.Booking, error) {
	args := m.Called(ctx, hostID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookingentity.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListByHost(ctx context.Context, hostID uuid.UUID, status string, from, to *time.Time) ([]bookingentity.Booking, error) {
	args := m.Called(ctx, hostID, status, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookingentity.Booking), args.Error(1)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id uuid.UUID, reason *string) (*bookingentity.Booking, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingentity.Booking), args.Error(1)
}

func (m *mockBookingRepo) ConfirmPending(ctx context.Context, id uuid.UUID) (*bookingentity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingentity.Booking), args.Error(1)
}

func (m *mockBookingRepo) SetPaymentRef(ctx context.Context, id uuid.UUID, ref string) error {
	return m.Called(ctx, id, ref).Error(0)
}

func (m *mockBookingRepo) SetCalendarRefs(ctx context.Context, id uuid.UUID, eventID, link *string) error {
	return m.Called(ctx, id, eventID, link).Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *authentity.User) (*authentity.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentity.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*authentity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentity.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*authentity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentity.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*authentity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentity.User), args.Error(1)
}

type mockEventTypeRepo struct {
	mock.Mock
}

func (m *mockEventTypeRepo) Create(ctx context.Context, et *etentity.EventType) (*etentity.EventType, error) {
	args := m.Called(ctx, et)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*etentity.EventType), args.Error(1)
}

func (m *mockEventTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*etentity.EventType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*etentity.EventType), args.Error(1)
}

func (m *mockEventTypeRepo) GetByHostAndSlug(ctx context.Context, hostID uuid.UUID, slug string) (*etentity.EventType, error) {
	args := m.Called(ctx, hostID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*etentity.EventType), args.Error(1)
}

func (m *mockEventTypeRepo) ListByHost(ctx context.Context, hostID uuid.UUID) ([]etentity.EventType, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]etentity.EventType), args.Error(1)
}

func (m *mockEventTypeRepo) Update(ctx context.Context, et *etentity.EventType) error {
	return m.Called(ctx, et).Error(0)
}

func (m *mockEventTypeRepo) SlugExists(ctx context.Context, hostID uuid.UUID, slug string) (bool, error) {
	args := m.Called(ctx, hostID, slug)
	return args.Bool(0), args.Error(1)
}

type mockQueueClient struct {
	mock.Mock
}

func (m *mockQueueClient) EnqueueEmail(p queue.EmailPayload) error {
	return m.Called(p).Error(0)
}

func (m *mockQueueClient) ScheduleReminder(p queue.ReminderPayload, fireAt time.Time) error {
	return m.Called(p, fireAt).Error(0)
}

func (m *mockQueueClient) CancelReminder(bookingID uuid.UUID) error {
	return m.Called(bookingID).Error(0)
}

func (m *mockQueueClient) SchedulePaymentExpiry(p queue.ExpirePaymentPayload, fireAt time.Time) error {
	return m.Called(p, fireAt).Error(0)
}

func (m *mockQueueClient) EnqueueWorkflow(p queue.RunWorkflowPayload) error {
	return m.Called(p).Error(0)
}

func (m *mockQueueClient) EnqueueWaitlistNotify(p queue.NotifyWaitlistPayload) error {
	return m.Called(p).Error(0)
}

func (m *mockQueueClient) EnqueueWebhook(p queue.WebhookPayload) error {
	return m.Called(p).Error(0)
}

func (m *mockQueueClient) Close() error {
	return m.Called().Error(0)
}

func testBooking(hostID, etID uuid.UUID) *bookingentity.Booking {
	b := &bookingentity.Booking{
		HostID:        hostID,
		EventTypeID:   etID,
		StartTime:     time.Date(2026, 4, 10, 13, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC),
		Status:        bookingentity.BookingStatusConfirmed,
		GuestName:     "Grace Hopper",
		GuestEmail:    "grace@example.com",
		GuestTimezone: "UTC",
	}
	b.ID = uuid.New()
	return b
}

func TestExecute_SubstitutesPlaceholdersInEmail(t *testing.T) {
	workflows := new(mockWorkflowRepo)
	bookings := new(mockBookingRepo)
	users := new(mockUserRepo)
	ets := new(mockEventTypeRepo)
	q := new(mockQueueClient)

	host := &authentity.User{FullName: "Alice Host", Email: "alice@example.com", Timezone: "UTC"}
	host.ID = uuid.New()
	et := &etentity.EventType{Title: "Design Review"}
	et.ID = uuid.New()
	booking := testBooking(host.ID, et.ID)

	wf := &entity.Workflow{
		HostID:   host.ID,
		Trigger:  entity.TriggerBookingConfirmed,
		IsActive: true,
		Actions: entity.Actions{{
			Kind: entity.ActionSendEmail,
			Email: &entity.EmailAction{
				To:      "{{guest_email}}",
				Subject: "See you, {{guest_name}}",
				Body:    "{{event_title}} on {{date}} at {{start_time}} with {{host_name}}",
			},
		}},
	}
	wf.ID = uuid.New()

	workflows.On("GetByID", mock.Anything, wf.ID).Return(wf, nil)
	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	users.On("GetUserByID", mock.Anything, host.ID).Return(host, nil)
	ets.On("GetByID", mock.Anything, et.ID).Return(et, nil)

	var sent queue.EmailPayload
	q.On("EnqueueEmail", mock.AnythingOfType("queue.EmailPayload")).
		Run(func(args mock.Arguments) { sent = args.Get(0).(queue.EmailPayload) }).
		Return(nil)

	executor := NewWorkflowExecutor(workflows, bookings, users, ets, q)
	err := executor.Execute(context.Background(), wf.ID, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"grace@example.com"}, sent.To)
	assert.Equal(t, "See you, Grace Hopper", sent.Subject)
	assert.Equal(t, "Design Review on 2026-04-10 at 13:00 with Alice Host", sent.Body)
}

func TestExecute_WebhookActionEnqueuesPost(t *testing.T) {
	workflows := new(mockWorkflowRepo)
	bookings := new(mockBookingRepo)
	users := new(mockUserRepo)
	ets := new(mockEventTypeRepo)
	q := new(mockQueueClient)

	hostID := uuid.New()
	etID := uuid.New()
	booking := testBooking(hostID, etID)

	wf := &entity.Workflow{
		HostID:   hostID,
		Trigger:  entity.TriggerBookingCancelled,
		IsActive: true,
		Actions: entity.Actions{{
			Kind:    entity.ActionSendWebhook,
			Webhook: &entity.WebhookAction{URL: "https://hooks.example.com/bookings"},
		}},
	}
	wf.ID = uuid.New()

	workflows.On("GetByID", mock.Anything, wf.ID).Return(wf, nil)
	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	users.On("GetUserByID", mock.Anything, hostID).Return(nil, nil)
	ets.On("GetByID", mock.Anything, etID).Return(nil, nil)

	var sent queue.WebhookPayload
	q.On("EnqueueWebhook", mock.AnythingOfType("queue.WebhookPayload")).
		Run(func(args mock.Arguments) { sent = args.Get(0).(queue.WebhookPayload) }).
		Return(nil)

	executor := NewWorkflowExecutor(workflows, bookings, users, ets, q)
	err := executor.Execute(context.Background(), wf.ID, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.example.com/bookings", sent.URL)
	assert.Equal(t, "POST", sent.Method)
	assert.Contains(t, sent.Body, booking.ID.String())
	assert.Contains(t, sent.Body, "grace@example.com")
}

func TestExecute_MissingWorkflowIsDropped(t *testing.T) {
	workflows := new(mockWorkflowRepo)
	q := new(mockQueueClient)
	executor := NewWorkflowExecutor(workflows, new(mockBookingRepo), new(mockUserRepo), new(mockEventTypeRepo), q)

	id := uuid.New()
	workflows.On("GetByID", mock.Anything, id).Return(nil, nil)

	err := executor.Execute(context.Background(), id, uuid.New())
	require.NoError(t, err)
	q.AssertNotCalled(t, "EnqueueEmail", mock.Anything)
	q.AssertNotCalled(t, "EnqueueWebhook", mock.Anything)
}

func TestExecute_InactiveWorkflowIsDropped(t *testing.T) {
	workflows := new(mockWorkflowRepo)
	bookings := new(mockBookingRepo)
	q := new(mockQueueClient)
	executor := NewWorkflowExecutor(workflows, bookings, new(mockUserRepo), new(mockEventTypeRepo), q)

	wf := &entity.Workflow{IsActive: false}
	wf.ID = uuid.New()
	workflows.On("GetByID", mock.Anything, wf.ID).Return(wf, nil)

	err := executor.Execute(context.Background(), wf.ID, uuid.New())
	require.NoError(t, err)
	bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
