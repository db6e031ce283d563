package entity

import (
	"time"

	"github.com/google/uuid"
)

// CalendarConnection stores a host's Google Calendar OAuth grant. Tokens are
// refreshed lazily when an API call finds them expired.
type CalendarConnection struct {
	HostID       uuid.UUID `db:"host_id" json:"host_id"`
	Provider     string    `db:"provider" json:"provider"`
	AccessToken  string    `db:"access_token" json:"-"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	TokenExpiry  time.Time `db:"token_expiry" json:"-"`
	CalendarID   string    `db:"calendar_id" json:"calendar_id"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const ProviderGoogle = "google"
