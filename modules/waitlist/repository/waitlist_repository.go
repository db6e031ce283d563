package repository

import (
	"context"
	"time"

	"bookly-api/core/database"
	"bookly-api/modules/waitlist/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const waitlistColumns = `id, host_id, event_type_id, date, guest_name, guest_email, notified_at, created_at, updated_at`

type WaitlistRepositoryInterface interface {
	Create(ctx context.Context, entry *entity.WaitlistEntry) error
	ListByHostAndDate(ctx context.Context, hostID, eventTypeID uuid.UUID, date time.Time) ([]entity.WaitlistEntry, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.WaitlistEntry, error)
	DeleteMatching(ctx context.Context, hostID, eventTypeID uuid.UUID, date time.Time, email string) error
	MarkNotified(ctx context.Context, ids []uuid.UUID) error
}

type WaitlistRepository struct {
	DB database.Database
}

func NewWaitlistRepository(db database.Database) *WaitlistRepository {
	return &WaitlistRepository{DB: db}
}

// Create inserts the entry; joining twice for the same date is a no-op.
func (r *WaitlistRepository) Create(ctx context.Context, entry *entity.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist_entries (id, host_id, event_type_id, date, guest_name, guest_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (host_id, event_type_id, date, guest_email) DO NOTHING`
	return r.DB.ExecContext(ctx, query,
		entry.ID, entry.HostID, entry.EventTypeID, entry.Date, entry.GuestName, entry.GuestEmail)
}

func (r *WaitlistRepository) ListByHostAndDate(ctx context.Context, hostID, eventTypeID uuid.UUID, date time.Time) ([]entity.WaitlistEntry, error) {
	var entries []entity.WaitlistEntry
	query := `
		SELECT ` + waitlistColumns + `
		FROM waitlist_entries
		WHERE host_id = $1 AND event_type_id = $2 AND date = $3 AND notified_at IS NULL
		ORDER BY created_at ASC`
	err := r.DB.SelectContext(ctx, &entries, query, hostID, eventTypeID, date)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitlistRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.WaitlistEntry, error) {
	var entries []entity.WaitlistEntry
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries WHERE host_id = $1 ORDER BY date ASC, created_at ASC`
	err := r.DB.SelectContext(ctx, &entries, query, hostID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitlistRepository) DeleteMatching(ctx context.Context, hostID, eventTypeID uuid.UUID, date time.Time, email string) error {
	query := `DELETE FROM waitlist_entries WHERE host_id = $1 AND event_type_id = $2 AND date = $3 AND guest_email = $4`
	return r.DB.ExecContext(ctx, query, hostID, eventTypeID, date, email)
}

func (r *WaitlistRepository) MarkNotified(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE waitlist_entries SET notified_at = NOW(), updated_at = NOW() WHERE id = ANY($1)`
	return r.DB.ExecContext(ctx, query, pq.Array(ids))
}
