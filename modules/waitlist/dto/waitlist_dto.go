package dto

// JoinWaitlistRequest is the public signup for a full date.
type JoinWaitlistRequest struct {
	Username   string `json:"username"`
	EventSlug  string `json:"event_slug"`
	Date       string `json:"date"` // YYYY-MM-DD in the host's timezone
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
}
