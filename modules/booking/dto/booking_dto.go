package dto

import (
	"time"

	"bookly-api/modules/booking/entity"
)

// CreateBookingRequest is the public booking submission.
type CreateBookingRequest struct {
	Username      string  `json:"username"`
	EventSlug     string  `json:"event_slug"`
	StartTime     string  `json:"start_time"` // RFC3339 instant, as returned by the slots endpoint
	GuestName     string  `json:"guest_name"`
	GuestEmail    string  `json:"guest_email"`
	GuestTimezone string  `json:"guest_timezone"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse is returned to guests after creating or cancelling.
// PaymentURL is set only for paid event types awaiting checkout.
type BookingResponse struct {
	ID                string     `json:"id"`
	Status            string     `json:"status"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	GuestStart        string     `json:"guest_start"` // HH:mm in the guest's timezone
	GuestDate         string     `json:"guest_date"`  // YYYY-MM-DD in the guest's timezone
	CancellationToken string     `json:"cancellation_token,omitempty"`
	MeetingLink       *string    `json:"meeting_link,omitempty"`
	PaymentURL        string     `json:"payment_url,omitempty"`
	PaymentExpiresAt  *time.Time `json:"payment_expires_at,omitempty"`
}

// CancelBookingRequest carries the optional reason for a cancellation.
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// Slot is one offered start time, rendered in both timezones.
type Slot struct {
	Start      time.Time `json:"start"`       // absolute instant, UTC
	End        time.Time `json:"end"`         // absolute instant, UTC
	HostStart  string    `json:"host_start"`  // HH:mm host wall clock
	GuestStart string    `json:"guest_start"` // HH:mm guest wall clock
	GuestDate  string    `json:"guest_date"`  // guest calendar date, may differ from the host date
}

// SlotsResponse answers GET /public/:username/:eventSlug/slots.
type SlotsResponse struct {
	Date     string `json:"date"`
	Timezone string `json:"timezone"` // guest timezone the slots are rendered in
	Slots    []Slot `json:"slots"`
}

// AvailableDaysResponse answers GET /public/:username/:eventSlug/available-days.
type AvailableDaysResponse struct {
	Month string   `json:"month"`
	Days  []string `json:"days"`
}

// ListBookingsQuery filters the host's booking list.
type ListBookingsQuery struct {
	Status string `query:"status"`
	From   string `query:"from"`
	To     string `query:"to"`
}

// NewBookingResponse renders a booking for the guest, localizing the start
// to the guest's timezone when it can be loaded.
func NewBookingResponse(b *entity.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                b.ID.String(),
		Status:            string(b.Status),
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		CancellationToken: b.CancellationToken,
		MeetingLink:       b.MeetingLink,
		PaymentExpiresAt:  b.PaymentExpiresAt,
	}
	if loc, err := time.LoadLocation(b.GuestTimezone); err == nil {
		local := b.StartTime.In(loc)
		resp.GuestStart = local.Format("15:04")
		resp.GuestDate = local.Format("2006-01-02")
	}
	return resp
}
