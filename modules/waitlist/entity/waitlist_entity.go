package entity

import (
	"time"

	"bookly-api/core/entity"

	"github.com/google/uuid"
)

// WaitlistEntry is a guest waiting for a slot to open on a fully booked
// date. NotifiedAt marks that the open-slot email went out; entries are
// notified at most once.
type WaitlistEntry struct {
	entity.BaseEntity
	HostID      uuid.UUID  `db:"host_id" json:"host_id"`
	EventTypeID uuid.UUID  `db:"event_type_id" json:"event_type_id"`
	Date        time.Time  `db:"date" json:"date"`
	GuestName   string     `db:"guest_name" json:"guest_name"`
	GuestEmail  string     `db:"guest_email" json:"guest_email"`
	NotifiedAt  *time.Time `db:"notified_at" json:"notified_at,omitempty"`
}
