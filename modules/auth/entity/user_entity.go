package entity

import (
	"time"

	"bookly-api/core/entity"
)

// User is a host: the owner of a schedule, event types and bookings.
type User struct {
	entity.BaseEntity
	Username        string     `db:"username" json:"username"`
	Email           string     `db:"email" json:"email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	FullName        string     `db:"full_name" json:"full_name"`
	Timezone        string     `db:"timezone" json:"timezone"`
	EmailVerifiedAt *time.Time `db:"email_verified_at" json:"email_verified_at,omitempty"`
	IsActive        bool       `db:"is_active" json:"is_active"`
}
