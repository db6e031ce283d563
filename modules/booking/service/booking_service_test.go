package service

import (
	"context"
	"testing"
	"time"

	"bookly-api/core/errors"
	availentity "bookly-api/modules/availability/entity"
	"bookly-api/modules/booking/dto"
	"bookly-api/modules/booking/entity"
	"bookly-api/modules/booking/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	*slotFixture
	payments *MockPaymentCollaborator
	svc      *BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	sf := newSlotFixture(t, 60, &availentity.SchedulingConfig{MaxDaysInAdvance: 60})
	sf.avail.On("ResolveDayIntervals", mock.Anything, sf.host.ID, testDate, baTZ).
		Return([]availentity.DayInterval{{StartTime: "09:00", EndTime: "12:00"}}, nil)
	sf.repo.On("ListActiveByHostBetween", mock.Anything, sf.host.ID, mock.Anything, mock.Anything).
		Return([]entity.Booking{}, nil)

	// Lifecycle loads host and event type for emails and notifications.
	sf.users.On("GetUserByID", mock.Anything, sf.host.ID).Return(sf.host, nil)
	sf.ets.On("GetByID", mock.Anything, sf.et.ID).Return(sf.et, nil)

	f := &bookingFixture{slotFixture: sf, payments: new(MockPaymentCollaborator)}
	lifecycle := NewBookingLifecycle(sf.repo, sf.users, sf.ets, nil, nil, nil, nil, nil)
	f.svc = NewBookingService(sf.repo, sf.gen, f.payments, lifecycle)
	return f
}

func createRequest() *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		Username:      testHostTag,
		EventSlug:     testSlug,
		StartTime:     testDate + "T10:00:00-03:00", // 10:00 host wall clock
		GuestName:     "Grace Hopper",
		GuestEmail:    "grace@example.com",
		GuestTimezone: "UTC",
	}
}

func TestCreateBooking_FreeEventConfirmsImmediately(t *testing.T) {
	f := newBookingFixture(t)
	f.repo.On("CreateWithConflictCheck", mock.Anything, mock.AnythingOfType("*entity.Booking")).Return(nil)

	resp, appErr := f.svc.CreateBooking(context.Background(), createRequest())
	require.Nil(t, appErr)

	assert.Equal(t, string(entity.BookingStatusConfirmed), resp.Status)
	assert.NotEmpty(t, resp.CancellationToken)
	assert.Equal(t, mustInstant(t, testDate, "10:00", baTZ), resp.StartTime)
	assert.Equal(t, mustInstant(t, testDate, "11:00", baTZ), resp.EndTime)
	f.repo.AssertNumberOfCalls(t, "CreateWithConflictCheck", 1)
	f.payments.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_SlotNotOfferedIsConflict(t *testing.T) {
	f := newBookingFixture(t)
	req := createRequest()
	req.StartTime = testDate + "T10:30:00-03:00" // not on the hourly grid

	_, appErr := f.svc.CreateBooking(context.Background(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	f.repo.AssertNotCalled(t, "CreateWithConflictCheck", mock.Anything, mock.Anything)
}

func TestCreateBooking_StartTimeMatchedAsInstant(t *testing.T) {
	f := newBookingFixture(t)
	f.repo.On("CreateWithConflictCheck", mock.Anything, mock.AnythingOfType("*entity.Booking")).Return(nil)

	// The same instant in a different offset: 10:00 -03:00 is 13:00 UTC.
	req := createRequest()
	req.StartTime = testDate + "T13:00:00Z"

	resp, appErr := f.svc.CreateBooking(context.Background(), req)
	require.Nil(t, appErr)
	assert.Equal(t, mustInstant(t, testDate, "10:00", baTZ).UTC(), resp.StartTime.UTC())
}

func TestCreateBooking_MalformedStartTime(t *testing.T) {
	f := newBookingFixture(t)
	req := createRequest()
	req.StartTime = "2026-03-03 10:00"

	_, appErr := f.svc.CreateBooking(context.Background(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	f.repo.AssertNotCalled(t, "CreateWithConflictCheck", mock.Anything, mock.Anything)
}

func TestCreateBooking_OverlapIsConflictNotRetried(t *testing.T) {
	f := newBookingFixture(t)
	f.repo.On("CreateWithConflictCheck", mock.Anything, mock.Anything).Return(repository.ErrSlotTaken)

	_, appErr := f.svc.CreateBooking(context.Background(), createRequest())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	f.repo.AssertNumberOfCalls(t, "CreateWithConflictCheck", 1)
}

func TestCreateBooking_RetriesSerializationFailures(t *testing.T) {
	f := newBookingFixture(t)
	serializationErr := &pq.Error{Code: "40001"}
	f.repo.On("CreateWithConflictCheck", mock.Anything, mock.Anything).Return(serializationErr).Twice()
	f.repo.On("CreateWithConflictCheck", mock.Anything, mock.Anything).Return(nil).Once()

	resp, appErr := f.svc.CreateBooking(context.Background(), createRequest())
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.BookingStatusConfirmed), resp.Status)
	f.repo.AssertNumberOfCalls(t, "CreateWithConflictCheck", 3)
}

func TestCreateBooking_GivesUpAfterMaxRetries(t *testing.T) {
	f := newBookingFixture(t)
	serializationErr := &pq.Error{Code: "40001"}
	f.repo.On("CreateWithConflictCheck", mock.Anything, mock.Anything).Return(serializationErr)

	_, appErr := f.svc.CreateBooking(context.Background(), createRequest())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInternalServer, appErr.Code)
	f.repo.AssertNumberOfCalls(t, "CreateWithConflictCheck", 3)
}

func TestCreateBooking_InvalidGuestEmail(t *testing.T) {
	f := newBookingFixture(t)
	req := createRequest()
	req.GuestEmail = "not-an-email"

	_, appErr := f.svc.CreateBooking(context.Background(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCreateBooking_PaidEventHoldsSlot(t *testing.T) {
	f := newBookingFixture(t)
	price := int64(5000)
	currency := "usd"
	f.et.PriceCents = &price
	f.et.Currency = &currency

	f.payments.On("HasActiveConnection", mock.Anything, f.host.ID).Return(true, nil)
	f.payments.On("CreateCheckoutSession", mock.Anything, mock.Anything, f.et, f.host).
		Return("cs_test_123", "https://checkout.example.com/cs_test_123", nil)
	f.repo.On("CreateWithConflictCheck", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("SetPaymentRef", mock.Anything, mock.Anything, "cs_test_123").Return(nil)

	resp, appErr := f.svc.CreateBooking(context.Background(), createRequest())
	require.Nil(t, appErr)

	assert.Equal(t, string(entity.BookingStatusPendingPayment), resp.Status)
	assert.Equal(t, "https://checkout.example.com/cs_test_123", resp.PaymentURL)
	require.NotNil(t, resp.PaymentExpiresAt)
	assert.True(t, resp.PaymentExpiresAt.After(f.gen.now()))
}

func TestCreateBooking_PaidEventWithoutPaymentSetupRefused(t *testing.T) {
	f := newBookingFixture(t)
	price := int64(5000)
	currency := "usd"
	f.et.PriceCents = &price
	f.et.Currency = &currency
	f.payments.On("HasActiveConnection", mock.Anything, f.host.ID).Return(false, nil)

	_, appErr := f.svc.CreateBooking(context.Background(), createRequest())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	assert.Equal(t, "payment not configured", appErr.Message)
	f.repo.AssertNotCalled(t, "CreateWithConflictCheck", mock.Anything, mock.Anything)
}

func confirmedBooking(t *testing.T, f *bookingFixture) *entity.Booking {
	t.Helper()
	b := &entity.Booking{
		HostID:            f.host.ID,
		EventTypeID:       f.et.ID,
		StartTime:         mustInstant(t, testDate, "10:00", baTZ),
		EndTime:           mustInstant(t, testDate, "11:00", baTZ),
		Status:            entity.BookingStatusConfirmed,
		CancellationToken: "tok-123",
		GuestName:         "Grace Hopper",
		GuestEmail:        "grace@example.com",
		GuestTimezone:     "UTC",
	}
	b.ID = uuid.New()
	return b
}

func TestCancelByToken_Succeeds(t *testing.T) {
	f := newBookingFixture(t)
	b := confirmedBooking(t, f)
	cancelled := *b
	cancelled.Status = entity.BookingStatusCancelled

	f.repo.On("GetByCancellationToken", mock.Anything, "tok-123").Return(b, nil)
	f.repo.On("Cancel", mock.Anything, b.ID, mock.Anything).Return(&cancelled, nil)

	resp, appErr := f.svc.CancelByToken(context.Background(), "tok-123", nil)
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.BookingStatusCancelled), resp.Status)
}

func TestCancelByToken_UnknownTokenIsNotFound(t *testing.T) {
	f := newBookingFixture(t)
	f.repo.On("GetByCancellationToken", mock.Anything, "missing").Return(nil, nil)

	_, appErr := f.svc.CancelByToken(context.Background(), "missing", nil)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestCancelByToken_SecondCancelReportsAlreadyCancelled(t *testing.T) {
	f := newBookingFixture(t)
	b := confirmedBooking(t, f)
	b.Status = entity.BookingStatusCancelled

	f.repo.On("GetByCancellationToken", mock.Anything, "tok-123").Return(b, nil)
	f.repo.On("Cancel", mock.Anything, b.ID, mock.Anything).Return(nil, repository.ErrAlreadyCancelled)

	_, appErr := f.svc.CancelByToken(context.Background(), "tok-123", nil)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyCancelled, appErr.Code)
}

func TestCancelByHost_RejectsForeignBooking(t *testing.T) {
	f := newBookingFixture(t)
	b := confirmedBooking(t, f)
	b.HostID = uuid.New() // someone else's

	f.repo.On("GetByID", mock.Anything, b.ID).Return(b, nil)

	_, appErr := f.svc.CancelByHost(context.Background(), f.host.ID, b.ID, nil)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
	f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_PromotesPendingBooking(t *testing.T) {
	f := newBookingFixture(t)
	b := confirmedBooking(t, f)
	b.Status = entity.BookingStatusPendingPayment
	amount := int64(5000)
	currency := "usd"
	ref := "cs_test_123"
	b.AmountCents = &amount
	b.Currency = &currency
	b.PaymentRef = &ref

	confirmed := *b
	confirmed.Status = entity.BookingStatusConfirmed

	f.repo.On("GetByPaymentRef", mock.Anything, ref).Return(b, nil)
	f.repo.On("ConfirmPending", mock.Anything, b.ID).Return(&confirmed, nil)

	appErr := f.svc.ConfirmPayment(context.Background(), ref, 5000, "usd")
	require.Nil(t, appErr)
	f.repo.AssertCalled(t, "ConfirmPending", mock.Anything, b.ID)
}

func TestConfirmPayment_CurrencyComparedCaseInsensitively(t *testing.T) {
	f := newBookingFixture(t)
	b := confirmedBooking(t, f)
	b.Status = entity.BookingStatusPendingPayment
	amount := int64(5000)
	currency := "USD" // Stripe reports "usd"
	ref := "cs_test_123"
	b.AmountCents = &amount
	b.Currency = &currency
	b.PaymentRef = &ref

	confirmed := *b
	confirmed.Status = entity.BookingStatusConfirmed

	f.repo.On("GetByPaymentRef", mock.Anything, ref).Return(b, nil)
	f.repo.On("ConfirmPending", mock.Anything, b.ID).Return(&confirmed, nil)

	appErr := f.svc.ConfirmPayment(context.Background(), ref, 5000, "usd")
	require.Nil(t, appErr)
	f.repo.AssertCalled(t, "ConfirmPending", mock.Anything, b.ID)
}

func TestConfirmPayment_CancelledIsTerminal(t *testing.T) {
	f := newBookingFixture(t)
	b := confirmedBooking(t, f)
	b.Status = entity.BookingStatusCancelled
	ref := "cs_test_123"
	b.PaymentRef = &ref

	f.repo.On("GetByPaymentRef", mock.Anything, ref).Return(b, nil)

	appErr := f.svc.ConfirmPayment(context.Background(), ref, 5000, "usd")
	require.Nil(t, appErr)
	f.repo.AssertNotCalled(t, "ConfirmPending", mock.Anything, mock.Anything)
}

func TestConfirmPayment_AmountMismatchRefused(t *testing.T) {
	f := newBookingFixture(t)
	b := confirmedBooking(t, f)
	b.Status = entity.BookingStatusPendingPayment
	amount := int64(5000)
	currency := "usd"
	ref := "cs_test_123"
	b.AmountCents = &amount
	b.Currency = &currency
	b.PaymentRef = &ref

	f.repo.On("GetByPaymentRef", mock.Anything, ref).Return(b, nil)

	appErr := f.svc.ConfirmPayment(context.Background(), ref, 4000, "usd")
	require.Nil(t, appErr)
	f.repo.AssertNotCalled(t, "ConfirmPending", mock.Anything, mock.Anything)
}

func TestConfirmPayment_UnknownRefIgnored(t *testing.T) {
	f := newBookingFixture(t)
	f.repo.On("GetByPaymentRef", mock.Anything, "cs_unknown").Return(nil, nil)

	appErr := f.svc.ConfirmPayment(context.Background(), "cs_unknown", 5000, "usd")
	require.Nil(t, appErr)
}

func TestExpirePayment_NoOpWhenAlreadyConfirmed(t *testing.T) {
	f := newBookingFixture(t)
	b := confirmedBooking(t, f)

	f.repo.On("GetByID", mock.Anything, b.ID).Return(b, nil)

	err := f.svc.ExpirePayment(context.Background(), b.ID)
	require.NoError(t, err)
	f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestExpirePayment_CancelsStalePendingBooking(t *testing.T) {
	f := newBookingFixture(t)
	b := confirmedBooking(t, f)
	b.Status = entity.BookingStatusPendingPayment
	expiry := time.Now().Add(-time.Minute)
	b.PaymentExpiresAt = &expiry

	cancelled := *b
	cancelled.Status = entity.BookingStatusCancelled

	f.repo.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	f.repo.On("Cancel", mock.Anything, b.ID, mock.Anything).Return(&cancelled, nil)

	err := f.svc.ExpirePayment(context.Background(), b.ID)
	require.NoError(t, err)
	f.repo.AssertCalled(t, "Cancel", mock.Anything, b.ID, mock.Anything)
}

func TestListMine_RejectsUnknownStatus(t *testing.T) {
	f := newBookingFixture(t)

	_, appErr := f.svc.ListMine(context.Background(), f.host.ID, &dto.ListBookingsQuery{Status: "DONE"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}
