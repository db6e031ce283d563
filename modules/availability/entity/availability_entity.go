package entity

import (
	"time"

	"bookly-api/core/entity"

	"github.com/google/uuid"
)

// WeeklyRule is a recurring availability window on one weekday.
// A host may have several windows on the same day. Sunday is 0.
type WeeklyRule struct {
	entity.BaseEntity
	HostID    uuid.UUID `db:"host_id" json:"host_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"` // "HH:mm"
	EndTime   string    `db:"end_time" json:"end_time"`     // "HH:mm"
}

// DateOverride replaces (or blocks) a single date's availability.
// If any row for a date has IsBlocked, the whole date is unavailable.
// Otherwise the rows for that date replace the weekly rules entirely.
type DateOverride struct {
	entity.BaseEntity
	HostID    uuid.UUID `db:"host_id" json:"host_id"`
	Date      time.Time `db:"date" json:"date"`
	IsBlocked bool      `db:"is_blocked" json:"is_blocked"`
	StartTime *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime   *string   `db:"end_time" json:"end_time,omitempty"`
}

// SchedulingConfig holds the host's booking policy. One row per host,
// created with defaults at registration.
type SchedulingConfig struct {
	HostID           uuid.UUID `db:"host_id" json:"host_id"`
	BufferBeforeMin  int       `db:"buffer_before_min" json:"buffer_before_min"`
	BufferAfterMin   int       `db:"buffer_after_min" json:"buffer_after_min"`
	MinNoticeMin     int       `db:"min_notice_min" json:"min_notice_min"`
	MaxDaysInAdvance int       `db:"max_days_in_advance" json:"max_days_in_advance"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// DayInterval is one bookable wall-clock window in the host's timezone.
type DayInterval struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
