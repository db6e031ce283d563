package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"bookly-api/core/database"
	"bookly-api/core/utils"
	"bookly-api/modules/booking/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Sentinel errors surfaced by the transactional operations. The service layer
// maps them onto API error codes.
var (
	ErrSlotTaken        = errors.New("requested slot overlaps an existing booking")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

const bookingColumns = `id, host_id, event_type_id, start_time, end_time, status,
	cancellation_token, guest_name, guest_email, guest_timezone, notes,
	amount_cents, currency, payment_ref, payment_expires_at,
	calendar_event_id, meeting_link, cancelled_at, cancel_reason,
	created_at, updated_at`

type BookingRepositoryInterface interface {
	CreateWithConflictCheck(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	GetByCancellationToken(ctx context.Context, token string) (*entity.Booking, error)
	GetByPaymentRef(ctx context.Context, paymentRef string) (*entity.Booking, error)
	ListActiveByHostBetween(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]entity.Booking, error)
	ListByHost(ctx context.Context, hostID uuid.UUID, status string, from, to *time.Time) ([]entity.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID, reason *string) (*entity.Booking, error)
	ConfirmPending(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	SetPaymentRef(ctx context.Context, id uuid.UUID, paymentRef string) error
	SetCalendarRefs(ctx context.Context, id uuid.UUID, eventID, meetingLink *string) error
}

type BookingRepository struct {
	DB database.Database
}

func NewBookingRepository(db database.Database) *BookingRepository {
	return &BookingRepository{DB: db}
}

// CreateWithConflictCheck inserts the booking only if no active booking of the
// same host overlaps its interval. The host row is locked first so that two
// concurrent requests for the same host serialize on the overlap check; a
// plain FOR UPDATE over the overlapping rows would not block when both
// transactions see zero rows.
func (r *BookingRepository) CreateWithConflictCheck(ctx context.Context, booking *entity.Booking) error {
	return r.DB.WithinTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(tx *sqlx.Tx) error {
		var hostID uuid.UUID
		err := tx.GetContext(ctx, &hostID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, booking.HostID)
		if err != nil {
			return err
		}

		var existing []entity.Booking
		err = tx.SelectContext(ctx, &existing, `
			SELECT `+bookingColumns+`
			FROM bookings
			WHERE host_id = $1
			  AND status IN ('CONFIRMED', 'PENDING_PAYMENT')
			  AND start_time < $3
			  AND end_time > $2`,
			booking.HostID, booking.StartTime, booking.EndTime)
		if err != nil {
			return err
		}
		for i := range existing {
			if utils.Overlaps(booking.StartTime, booking.EndTime, existing[i].StartTime, existing[i].EndTime) {
				return ErrSlotTaken
			}
		}

		query := `
			INSERT INTO bookings (
				id, host_id, event_type_id, start_time, end_time, status,
				cancellation_token, guest_name, guest_email, guest_timezone, notes,
				amount_cents, currency, payment_ref, payment_expires_at,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
			RETURNING created_at, updated_at`
		return tx.GetContext(ctx, &booking.BaseEntity, query,
			booking.ID, booking.HostID, booking.EventTypeID,
			booking.StartTime, booking.EndTime, booking.Status,
			booking.CancellationToken, booking.GuestName, booking.GuestEmail,
			booking.GuestTimezone, booking.Notes,
			booking.AmountCents, booking.Currency,
			booking.PaymentRef, booking.PaymentExpiresAt)
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := r.DB.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByCancellationToken(ctx context.Context, token string) (*entity.Booking, error) {
	var booking entity.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE cancellation_token = $1`
	err := r.DB.GetContext(ctx, &booking, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*entity.Booking, error) {
	var booking entity.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_ref = $1`
	err := r.DB.GetContext(ctx, &booking, query, paymentRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// ListActiveByHostBetween returns CONFIRMED and PENDING_PAYMENT bookings
// intersecting [from, to). Used by slot generation.
func (r *BookingRepository) ListActiveByHostBetween(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]entity.Booking, error) {
	var bookings []entity.Booking
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE host_id = $1
		  AND status IN ('CONFIRMED', 'PENDING_PAYMENT')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time ASC`
	err := r.DB.SelectContext(ctx, &bookings, query, hostID, from, to)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) ListByHost(ctx context.Context, hostID uuid.UUID, status string, from, to *time.Time) ([]entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE host_id = $1`
	args := []interface{}{hostID}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $2`
	}
	if from != nil {
		args = append(args, *from)
		query += ` AND end_time > $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND start_time < $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY start_time ASC`

	var bookings []entity.Booking
	err := r.DB.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// Cancel marks the booking CANCELLED. The status guard in the UPDATE makes the
// operation race-safe: a booking already cancelled by a concurrent request
// yields ErrAlreadyCancelled instead of a double transition.
func (r *BookingRepository) Cancel(ctx context.Context, id uuid.UUID, reason *string) (*entity.Booking, error) {
	var booking entity.Booking
	query := `
		UPDATE bookings
		SET status = 'CANCELLED', cancelled_at = NOW(), cancel_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'CANCELLED'
		RETURNING ` + bookingColumns
	err := r.DB.GetContext(ctx, &booking, query, id, reason)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	return nil, ErrAlreadyCancelled
}

// ConfirmPending promotes a PENDING_PAYMENT booking to CONFIRMED. Returns
// sql.ErrNoRows-as-nil semantics through GetByID when the guard does not
// match; callers inspect the current row to decide idempotency.
func (r *BookingRepository) ConfirmPending(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	query := `
		UPDATE bookings
		SET status = 'CONFIRMED', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING_PAYMENT'
		RETURNING ` + bookingColumns
	err := r.DB.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) SetPaymentRef(ctx context.Context, id uuid.UUID, paymentRef string) error {
	query := `UPDATE bookings SET payment_ref = $2, updated_at = NOW() WHERE id = $1`
	return r.DB.ExecContext(ctx, query, id, paymentRef)
}

func (r *BookingRepository) SetCalendarRefs(ctx context.Context, id uuid.UUID, eventID, meetingLink *string) error {
	query := `UPDATE bookings SET calendar_event_id = $2, meeting_link = $3, updated_at = NOW() WHERE id = $1`
	return r.DB.ExecContext(ctx, query, id, eventID, meetingLink)
}
