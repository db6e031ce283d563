package dto

type CreateEventTypeRequest struct {
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	LocationType    string  `json:"location_type"`
	PriceCents      *int64  `json:"price_cents,omitempty"`
	Currency        *string `json:"currency,omitempty"`
}

type UpdateEventTypeRequest struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	LocationType    *string `json:"location_type,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
	PriceCents      *int64  `json:"price_cents,omitempty"`
	Currency        *string `json:"currency,omitempty"`
}

// PublicEventTypeResponse is the guest-visible shape of an event type.
type PublicEventTypeResponse struct {
	HostName        string  `json:"host_name"`
	Username        string  `json:"username"`
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	LocationType    string  `json:"location_type"`
	PriceCents      *int64  `json:"price_cents,omitempty"`
	Currency        *string `json:"currency,omitempty"`
}
