package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Database
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist = "token:blacklist:"
	RedisKeyAvailableDays  = "booking:available-days:"
)

// Cache TTLs
const (
	AvailableDaysCacheTTL = 2 * time.Minute
)

// Scheduling defaults, applied when a host registers.
const (
	DefaultBufferBeforeMin  = 0
	DefaultBufferAfterMin   = 0
	DefaultMinNoticeMin     = 60
	DefaultMaxDaysInAdvance = 60
)

// Booking
const (
	CancellationTokenLength = 32
	PaymentHoldMinutes      = 60
	// BookingTxMaxRetries bounds retries on transaction serialization
	// failures. A business-level slot conflict is never retried.
	BookingTxMaxRetries = 3
)

// Wire formats
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	HHMMLayout  = "15:04"
)

// Reminder lead time before a booking starts.
const ReminderLeadTime = 24 * time.Hour
