package service

import (
	"context"
	"encoding/json"

	"bookly-api/core/config"
	"bookly-api/core/errors"
	"bookly-api/core/logger"
	authentity "bookly-api/modules/auth/entity"
	bookingentity "bookly-api/modules/booking/entity"
	etentity "bookly-api/modules/eventtype/entity"
	"bookly-api/modules/payment/dto"
	"bookly-api/modules/payment/entity"
	"bookly-api/modules/payment/repository"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// BookingConfirmer is the slice of the booking module the webhook needs.
type BookingConfirmer interface {
	ConfirmPayment(ctx context.Context, paymentRef string, amountCents int64, currency string) *errors.AppError
	RejectPayment(ctx context.Context, paymentRef string, reason string) *errors.AppError
}

type PaymentServiceInterface interface {
	ConnectAccount(ctx context.Context, hostID uuid.UUID, req *dto.ConnectAccountRequest) (*entity.PaymentConnection, *errors.AppError)
	GetConnection(ctx context.Context, hostID uuid.UUID) (*entity.PaymentConnection, *errors.AppError)
	DisconnectAccount(ctx context.Context, hostID uuid.UUID) *errors.AppError
	HandleWebhook(ctx context.Context, payload []byte, signature string) *errors.AppError

	// Collaborator surface consumed by the booking module
	HasActiveConnection(ctx context.Context, hostID uuid.UUID) (bool, error)
	CreateCheckoutSession(ctx context.Context, booking *bookingentity.Booking, eventType *etentity.EventType, host *authentity.User) (string, string, error)
}

type PaymentService struct {
	repo     repository.PaymentRepositoryInterface
	bookings BookingConfirmer
}

func NewPaymentService(repo repository.PaymentRepositoryInterface) *PaymentService {
	return &PaymentService{repo: repo}
}

// SetBookingConfirmer breaks the construction cycle between payment and
// booking: payment is built first so booking can hold it as a collaborator,
// then the webhook side is wired back here.
func (s *PaymentService) SetBookingConfirmer(b BookingConfirmer) {
	s.bookings = b
}

func (s *PaymentService) ConnectAccount(ctx context.Context, hostID uuid.UUID, req *dto.ConnectAccountRequest) (*entity.PaymentConnection, *errors.AppError) {
	if req.AccountID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "account id is required", nil)
	}

	conn := &entity.PaymentConnection{
		HostID:    hostID,
		Provider:  entity.ProviderStripe,
		AccountID: req.AccountID,
	}
	if err := s.repo.UpsertConnection(ctx, conn); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save payment connection", err)
	}

	logger.Info("PaymentService:ConnectAccount: connected", "host_id", hostID)
	saved, err := s.repo.GetActiveConnection(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load payment connection", err)
	}
	return saved, nil
}

func (s *PaymentService) GetConnection(ctx context.Context, hostID uuid.UUID) (*entity.PaymentConnection, *errors.AppError) {
	conn, err := s.repo.GetActiveConnection(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load payment connection", err)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "no payment connection", nil)
	}
	return conn, nil
}

func (s *PaymentService) DisconnectAccount(ctx context.Context, hostID uuid.UUID) *errors.AppError {
	if err := s.repo.DeactivateConnection(ctx, hostID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to disconnect", err)
	}
	logger.Info("PaymentService:DisconnectAccount: disconnected", "host_id", hostID)
	return nil
}

func (s *PaymentService) HasActiveConnection(ctx context.Context, hostID uuid.UUID) (bool, error) {
	conn, err := s.repo.GetActiveConnection(ctx, hostID)
	if err != nil {
		return false, err
	}
	return conn != nil, nil
}

// CreateCheckoutSession opens a Stripe Checkout session for a pending
// booking. The session ID doubles as the booking's payment reference, and
// the session deadline matches the booking's payment hold.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, booking *bookingentity.Booking, eventType *etentity.EventType, host *authentity.User) (string, string, error) {
	cfg := config.Get()
	stripe.Key = cfg.Stripe.SecretKey

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   booking.Currency,
				UnitAmount: booking.AmountCents,
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(eventType.Title + " with " + host.FullName),
				},
			},
		}},
		CustomerEmail: stripe.String(booking.GuestEmail),
		SuccessURL:    stripe.String(cfg.Server.BaseURL + "/booking/confirmed/" + booking.ID.String()),
		CancelURL:     stripe.String(cfg.Server.BaseURL + "/booking/cancelled/" + booking.ID.String()),
	}
	if booking.PaymentExpiresAt != nil {
		params.ExpiresAt = stripe.Int64(booking.PaymentExpiresAt.Unix())
	}
	params.AddMetadata("booking_id", booking.ID.String())

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	logger.Info("PaymentService:CreateCheckoutSession: created", "booking_id", booking.ID, "session_id", sess.ID)
	return sess.ID, sess.URL, nil
}

// HandleWebhook verifies and routes Stripe events. Unhandled event types are
// acknowledged silently so Stripe stops retrying them.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) *errors.AppError {
	cfg := config.Get()
	event, err := webhook.ConstructEvent(payload, signature, cfg.Stripe.WebhookSecret)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "invalid webhook signature", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "malformed event payload", err)
		}
		logger.Info("PaymentService:HandleWebhook: checkout completed", "session_id", sess.ID)
		return s.bookings.ConfirmPayment(ctx, sess.ID, sess.AmountTotal, string(sess.Currency))

	case "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "malformed event payload", err)
		}
		logger.Info("PaymentService:HandleWebhook: checkout expired", "session_id", sess.ID)
		return s.bookings.RejectPayment(ctx, sess.ID, "payment session expired")

	default:
		logger.Debug("PaymentService:HandleWebhook: ignoring event", "type", string(event.Type))
		return nil
	}
}
