package service

import (
	"context"
	"strings"
	"time"

	"bookly-api/core/constants"
	"bookly-api/core/database"
	"bookly-api/core/errors"
	"bookly-api/core/logger"
	"bookly-api/core/utils"
	authentity "bookly-api/modules/auth/entity"
	"bookly-api/modules/booking/dto"
	"bookly-api/modules/booking/entity"
	"bookly-api/modules/booking/repository"
	etentity "bookly-api/modules/eventtype/entity"

	"github.com/google/uuid"
)

// Collaborator interfaces for the modules that take part in booking
// transitions. They are defined here, on the consumer side, so the booking
// module does not import the implementing modules.
type PaymentCollaborator interface {
	HasActiveConnection(ctx context.Context, hostID uuid.UUID) (bool, error)
	CreateCheckoutSession(ctx context.Context, booking *entity.Booking, eventType *etentity.EventType, host *authentity.User) (sessionID string, checkoutURL string, err error)
}

type CalendarCollaborator interface {
	CreateBookingEvent(ctx context.Context, hostID uuid.UUID, booking *entity.Booking, title string, withMeet bool) (eventID string, meetLink string, err error)
	DeleteBookingEvent(ctx context.Context, hostID uuid.UUID, eventID string) error
}

type WorkflowDispatcher interface {
	Dispatch(ctx context.Context, hostID uuid.UUID, trigger string, bookingID uuid.UUID)
}

type WaitlistCollaborator interface {
	RemoveMatching(ctx context.Context, hostID, eventTypeID uuid.UUID, date, email string) error
	SpotOpened(ctx context.Context, hostID, eventTypeID uuid.UUID, date string) error
}

type NotificationRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]any)
}

type BookingServiceInterface interface {
	// Public surface
	AvailableDays(ctx context.Context, username, eventSlug, month string) (*dto.AvailableDaysResponse, *errors.AppError)
	Slots(ctx context.Context, username, eventSlug, date, guestTimezone string) (*dto.SlotsResponse, *errors.AppError)
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, *errors.AppError)
	CancelByToken(ctx context.Context, token string, reason *string) (*dto.BookingResponse, *errors.AppError)

	// Host surface
	ListMine(ctx context.Context, hostID uuid.UUID, query *dto.ListBookingsQuery) ([]entity.Booking, *errors.AppError)
	GetMine(ctx context.Context, hostID, bookingID uuid.UUID) (*entity.Booking, *errors.AppError)
	CancelByHost(ctx context.Context, hostID, bookingID uuid.UUID, reason *string) (*entity.Booking, *errors.AppError)

	// Payment transitions, driven by the payment webhook and the worker
	ConfirmPayment(ctx context.Context, paymentRef string, amountCents int64, currency string) *errors.AppError
	RejectPayment(ctx context.Context, paymentRef string, reason string) *errors.AppError
	ExpirePayment(ctx context.Context, bookingID uuid.UUID) error
}

type BookingService struct {
	repo      repository.BookingRepositoryInterface
	slots     *SlotGenerator
	payments  PaymentCollaborator
	lifecycle *BookingLifecycle
}

func NewBookingService(
	repo repository.BookingRepositoryInterface,
	slots *SlotGenerator,
	payments PaymentCollaborator,
	lifecycle *BookingLifecycle,
) *BookingService {
	return &BookingService{
		repo:      repo,
		slots:     slots,
		payments:  payments,
		lifecycle: lifecycle,
	}
}

func (s *BookingService) AvailableDays(ctx context.Context, username, eventSlug, month string) (*dto.AvailableDaysResponse, *errors.AppError) {
	return s.slots.AvailableDays(ctx, username, eventSlug, month)
}

func (s *BookingService) Slots(ctx context.Context, username, eventSlug, date, guestTimezone string) (*dto.SlotsResponse, *errors.AppError) {
	return s.slots.GenerateSlots(ctx, username, eventSlug, date, guestTimezone)
}

// CreateBooking validates the requested slot against the currently offered
// ones, then inserts inside the conflict-checking transaction. Serialization
// failures are retried a bounded number of times; a genuine overlap is a
// conflict, never retried.
func (s *BookingService) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, *errors.AppError) {
	logger.Info("BookingService:CreateBooking: received", "username", req.Username, "event", req.EventSlug, "start_time", req.StartTime)

	if req.GuestName == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "guest name is required", nil)
	}
	if !utils.IsValidEmail(req.GuestEmail) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid guest email", nil)
	}
	guestLoc, err := time.LoadLocation(req.GuestTimezone)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown timezone", err)
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid start_time, expected RFC3339", err)
	}

	host, eventType, appErr := s.slots.resolveTarget(ctx, req.Username, req.EventSlug)
	if appErr != nil {
		return nil, appErr
	}
	hostLoc, err := time.LoadLocation(host.Timezone)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "host timezone is invalid", err)
	}
	date := start.In(hostLoc).Format(constants.DateLayout)

	offered, appErr := s.slots.slotsForDate(ctx, host, eventType, date, guestLoc)
	if appErr != nil {
		return nil, appErr
	}
	var chosen *dto.Slot
	for i := range offered {
		if offered[i].Start.Equal(start) {
			chosen = &offered[i]
			break
		}
	}
	if chosen == nil {
		return nil, errors.NewAppError(errors.ErrConflict, "the requested slot is not available", nil)
	}

	booking := &entity.Booking{
		HostID:            host.ID,
		EventTypeID:       eventType.ID,
		StartTime:         chosen.Start,
		EndTime:           chosen.End,
		Status:            entity.BookingStatusConfirmed,
		CancellationToken: utils.GenerateCancellationToken(constants.CancellationTokenLength),
		GuestName:         req.GuestName,
		GuestEmail:        req.GuestEmail,
		GuestTimezone:     req.GuestTimezone,
		Notes:             req.Notes,
	}
	booking.ID = uuid.New()

	if eventType.IsPaid() {
		connected, err := s.payments.HasActiveConnection(ctx, host.ID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check payment setup", err)
		}
		if !connected {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "payment not configured", nil)
		}
		booking.Status = entity.BookingStatusPendingPayment
		booking.AmountCents = eventType.PriceCents
		booking.Currency = eventType.Currency
		expiresAt := s.slots.now().Add(constants.PaymentHoldMinutes * time.Minute)
		booking.PaymentExpiresAt = &expiresAt
	}

	for attempt := 1; ; attempt++ {
		err = s.repo.CreateWithConflictCheck(ctx, booking)
		if err == nil {
			break
		}
		if err == repository.ErrSlotTaken {
			return nil, errors.NewAppError(errors.ErrConflict, "the requested slot is not available", nil)
		}
		if database.IsSerializationFailure(err) && attempt < constants.BookingTxMaxRetries {
			logger.Warn("BookingService:CreateBooking: serialization failure, retrying", "attempt", attempt)
			continue
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create booking", err)
	}

	s.slots.InvalidateAvailableDays(ctx, host.ID.String())

	resp := dto.NewBookingResponse(booking)
	if booking.Status == entity.BookingStatusPendingPayment {
		sessionID, checkoutURL, err := s.payments.CreateCheckoutSession(ctx, booking, eventType, host)
		if err != nil {
			// The hold is released right away; the guest can retry.
			logger.Error("BookingService:CreateBooking: checkout session failed", err)
			reason := "payment setup failed"
			if _, cancelErr := s.repo.Cancel(ctx, booking.ID, &reason); cancelErr != nil {
				logger.Error("BookingService:CreateBooking: failed to release hold", cancelErr)
			}
			s.slots.InvalidateAvailableDays(ctx, host.ID.String())
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to start payment", err)
		}
		if err := s.repo.SetPaymentRef(ctx, booking.ID, sessionID); err != nil {
			logger.Error("BookingService:CreateBooking: failed to store payment ref", err)
		}
		booking.PaymentRef = &sessionID
		resp.PaymentURL = checkoutURL
		s.lifecycle.OnPendingPayment(ctx, booking, checkoutURL)
	} else {
		s.lifecycle.OnConfirmed(ctx, booking)
		resp.MeetingLink = booking.MeetingLink
	}

	logger.Info("BookingService:CreateBooking: created", "booking_id", booking.ID, "status", booking.Status)
	return resp, nil
}

func (s *BookingService) ListMine(ctx context.Context, hostID uuid.UUID, query *dto.ListBookingsQuery) ([]entity.Booking, *errors.AppError) {
	if query.Status != "" {
		switch entity.BookingStatus(query.Status) {
		case entity.BookingStatusPendingPayment, entity.BookingStatusConfirmed, entity.BookingStatusCancelled:
		default:
			return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown status filter", nil)
		}
	}
	var from, to *time.Time
	if query.From != "" {
		t, err := time.Parse(constants.DateLayout, query.From)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid from date", err)
		}
		from = &t
	}
	if query.To != "" {
		t, err := time.Parse(constants.DateLayout, query.To)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid to date", err)
		}
		end := t.AddDate(0, 0, 1)
		to = &end
	}
	bookings, err := s.repo.ListByHost(ctx, hostID, query.Status, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list bookings", err)
	}
	return bookings, nil
}

func (s *BookingService) GetMine(ctx context.Context, hostID, bookingID uuid.UUID) (*entity.Booking, *errors.AppError) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load booking", err)
	}
	if booking == nil || booking.HostID != hostID {
		return nil, errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	return booking, nil
}

func (s *BookingService) CancelByHost(ctx context.Context, hostID, bookingID uuid.UUID, reason *string) (*entity.Booking, *errors.AppError) {
	booking, appErr := s.GetMine(ctx, hostID, bookingID)
	if appErr != nil {
		return nil, appErr
	}
	return s.cancel(ctx, booking.ID, reason)
}

func (s *BookingService) CancelByToken(ctx context.Context, token string, reason *string) (*dto.BookingResponse, *errors.AppError) {
	booking, err := s.repo.GetByCancellationToken(ctx, token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load booking", err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	cancelled, appErr := s.cancel(ctx, booking.ID, reason)
	if appErr != nil {
		return nil, appErr
	}
	return dto.NewBookingResponse(cancelled), nil
}

// cancel performs the guarded transition and runs the side effects once. The
// repository guard guarantees that of any number of concurrent cancellations
// exactly one observes the transition.
func (s *BookingService) cancel(ctx context.Context, bookingID uuid.UUID, reason *string) (*entity.Booking, *errors.AppError) {
	cancelled, err := s.repo.Cancel(ctx, bookingID, reason)
	if err != nil {
		if err == repository.ErrAlreadyCancelled {
			return nil, errors.NewAppError(errors.ErrAlreadyCancelled, "booking is already cancelled", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to cancel booking", err)
	}
	if cancelled == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}

	s.slots.InvalidateAvailableDays(ctx, cancelled.HostID.String())
	s.lifecycle.OnCancelled(ctx, cancelled)
	logger.Info("BookingService:cancel: cancelled", "booking_id", cancelled.ID)
	return cancelled, nil
}

// ConfirmPayment promotes a pending booking after checkout completes.
// Unknown references and terminal bookings are logged and ignored so the
// webhook can always be acknowledged.
func (s *BookingService) ConfirmPayment(ctx context.Context, paymentRef string, amountCents int64, currency string) *errors.AppError {
	booking, err := s.repo.GetByPaymentRef(ctx, paymentRef)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load booking", err)
	}
	if booking == nil {
		logger.Warn("BookingService:ConfirmPayment: unknown payment ref", "payment_ref", paymentRef)
		return nil
	}
	if booking.Status == entity.BookingStatusCancelled {
		// Terminal. A late payment for a cancelled booking must not revive it.
		logger.Warn("BookingService:ConfirmPayment: booking already cancelled", "booking_id", booking.ID)
		return nil
	}
	if booking.Status == entity.BookingStatusConfirmed {
		return nil
	}
	// Stripe reports currencies lowercase regardless of how the host stored
	// theirs, so the comparison must be case-insensitive.
	if booking.AmountCents == nil || *booking.AmountCents != amountCents ||
		booking.Currency == nil || !strings.EqualFold(*booking.Currency, currency) {
		logger.Error("BookingService:ConfirmPayment: amount mismatch",
			"booking_id", booking.ID, "got_cents", amountCents, "got_currency", currency)
		return nil
	}

	confirmed, err := s.repo.ConfirmPending(ctx, booking.ID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to confirm booking", err)
	}
	if confirmed == nil {
		// Lost a race with cancellation or a duplicate webhook delivery.
		logger.Warn("BookingService:ConfirmPayment: booking no longer pending", "booking_id", booking.ID)
		return nil
	}

	s.lifecycle.OnConfirmed(ctx, confirmed)
	logger.Info("BookingService:ConfirmPayment: confirmed", "booking_id", confirmed.ID)
	return nil
}

// RejectPayment cancels a pending booking whose checkout failed or expired.
func (s *BookingService) RejectPayment(ctx context.Context, paymentRef string, reason string) *errors.AppError {
	booking, err := s.repo.GetByPaymentRef(ctx, paymentRef)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load booking", err)
	}
	if booking == nil || booking.Status != entity.BookingStatusPendingPayment {
		return nil
	}
	if _, appErr := s.cancel(ctx, booking.ID, &reason); appErr != nil && appErr.Code != errors.ErrAlreadyCancelled {
		return appErr
	}
	return nil
}

// ExpirePayment is the worker-side deadline for unpaid bookings. It no-ops
// when the payment already completed.
func (s *BookingService) ExpirePayment(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil || booking.Status != entity.BookingStatusPendingPayment {
		return nil
	}
	reason := "payment window expired"
	if _, appErr := s.cancel(ctx, booking.ID, &reason); appErr != nil && appErr.Code != errors.ErrAlreadyCancelled {
		return appErr
	}
	logger.Info("BookingService:ExpirePayment: expired", "booking_id", bookingID)
	return nil
}
