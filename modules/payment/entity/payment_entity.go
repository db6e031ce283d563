package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentConnection links a host to their payment provider account. One
// active connection per host; paid event types are only bookable while one
// exists.
type PaymentConnection struct {
	HostID    uuid.UUID `db:"host_id" json:"host_id"`
	Provider  string    `db:"provider" json:"provider"`
	AccountID string    `db:"account_id" json:"account_id"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

const ProviderStripe = "stripe"
