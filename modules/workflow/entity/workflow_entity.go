package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"bookly-api/core/entity"

	"github.com/google/uuid"
)

// Workflow triggers. Booking transitions dispatch these.
const (
	TriggerBookingCreated   = "booking_created"
	TriggerBookingConfirmed = "booking_confirmed"
	TriggerBookingCancelled = "booking_cancelled"
)

// Action kinds.
const (
	ActionSendEmail   = "send_email"
	ActionSendWebhook = "send_webhook"
)

// Action is one step of a workflow. Kind selects which of the optional
// blocks applies; the others stay nil.
type Action struct {
	Kind    string         `json:"kind"`
	Email   *EmailAction   `json:"email,omitempty"`
	Webhook *WebhookAction `json:"webhook,omitempty"`
}

// EmailAction sends a templated email. Recipient is either a literal address
// or the placeholder {{guest_email}} / {{host_email}}.
type EmailAction struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// WebhookAction POSTs the booking payload to an external URL.
type WebhookAction struct {
	URL string `json:"url"`
}

// Actions is the JSONB column holding a workflow's ordered steps.
type Actions []Action

func (a Actions) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Actions) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = nil
		return nil
	default:
		return errors.New("unsupported source type for workflow actions")
	}
}

// Workflow is a host-defined automation bound to a booking trigger.
type Workflow struct {
	entity.BaseEntity
	HostID   uuid.UUID `db:"host_id" json:"host_id"`
	Name     string    `db:"name" json:"name"`
	Trigger  string    `db:"trigger" json:"trigger"`
	Actions  Actions   `db:"actions" json:"actions"`
	IsActive bool      `db:"is_active" json:"is_active"`
}
