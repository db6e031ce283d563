package entity

import (
	"time"

	"bookly-api/core/entity"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
)

// Booking is a guest's reserved time slot with a host.
//
// Invariant, enforced by the creation transaction: for a given host no two
// bookings in {CONFIRMED, PENDING_PAYMENT} have overlapping
// [StartTime, EndTime) intervals. CANCELLED rows are kept for history and
// do not count toward the invariant.
type Booking struct {
	entity.BaseEntity
	HostID            uuid.UUID     `db:"host_id" json:"host_id"`
	EventTypeID       uuid.UUID     `db:"event_type_id" json:"event_type_id"`
	StartTime         time.Time     `db:"start_time" json:"start_time"`
	EndTime           time.Time     `db:"end_time" json:"end_time"`
	Status            BookingStatus `db:"status" json:"status"`
	CancellationToken string        `db:"cancellation_token" json:"cancellation_token"`
	GuestName         string        `db:"guest_name" json:"guest_name"`
	GuestEmail        string        `db:"guest_email" json:"guest_email"`
	GuestTimezone     string        `db:"guest_timezone" json:"guest_timezone"`
	Notes             *string       `db:"notes" json:"notes,omitempty"`
	AmountCents       *int64        `db:"amount_cents" json:"amount_cents,omitempty"`
	Currency          *string       `db:"currency" json:"currency,omitempty"`
	PaymentRef        *string       `db:"payment_ref" json:"-"`
	PaymentExpiresAt  *time.Time    `db:"payment_expires_at" json:"payment_expires_at,omitempty"`
	CalendarEventID   *string       `db:"calendar_event_id" json:"-"`
	MeetingLink       *string       `db:"meeting_link" json:"meeting_link,omitempty"`
	CancelledAt       *time.Time    `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancelReason      *string       `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

// IsTerminal reports whether the booking can no longer change state.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled
}
