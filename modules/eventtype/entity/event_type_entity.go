package entity

import (
	"bookly-api/core/entity"

	"github.com/google/uuid"
)

// LocationType describes where a booked meeting takes place.
type LocationType string

const (
	LocationNone       LocationType = "none"
	LocationGoogleMeet LocationType = "google_meet"
	LocationInPerson   LocationType = "in_person"
)

// EventType is a bookable meeting template owned by a host.
type EventType struct {
	entity.BaseEntity
	HostID          uuid.UUID    `db:"host_id" json:"host_id"`
	Slug            string       `db:"slug" json:"slug"`
	Title           string       `db:"title" json:"title"`
	Description     *string      `db:"description" json:"description,omitempty"`
	DurationMinutes int          `db:"duration_minutes" json:"duration_minutes"`
	LocationType    LocationType `db:"location_type" json:"location_type"`
	IsActive        bool         `db:"is_active" json:"is_active"`
	PriceCents      *int64       `db:"price_cents" json:"price_cents,omitempty"`
	Currency        *string      `db:"currency" json:"currency,omitempty"`
}

// IsPaid reports whether booking this event type requires payment.
func (e *EventType) IsPaid() bool {
	return e.PriceCents != nil && *e.PriceCents > 0
}
