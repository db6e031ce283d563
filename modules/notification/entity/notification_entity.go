package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"bookly-api/core/entity"

	"github.com/google/uuid"
)

// Data is the free-form JSONB payload attached to a notification, typically
// holding the booking id the notification refers to.
type Data map[string]any

func (d Data) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *Data) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = nil
		return nil
	default:
		return errors.New("unsupported source type for notification data")
	}
}

// Notification is an in-app message for a host.
type Notification struct {
	entity.BaseEntity
	UserID  uuid.UUID  `db:"user_id" json:"user_id"`
	Type    string     `db:"type" json:"type"`
	Title   string     `db:"title" json:"title"`
	Message string     `db:"message" json:"message"`
	Data    Data       `db:"data" json:"data,omitempty"`
	IsRead  bool       `db:"is_read" json:"is_read"`
	ReadAt  *time.Time `db:"read_at" json:"read_at,omitempty"`
}
