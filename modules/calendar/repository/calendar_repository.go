package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bookly-api/core/database"
	"bookly-api/modules/calendar/entity"

	"github.com/google/uuid"
)

type CalendarRepositoryInterface interface {
	UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) error
	GetActiveConnection(ctx context.Context, hostID uuid.UUID) (*entity.CalendarConnection, error)
	UpdateTokens(ctx context.Context, hostID uuid.UUID, accessToken string, expiry time.Time) error
	DeactivateConnection(ctx context.Context, hostID uuid.UUID) error
}

type CalendarRepository struct {
	DB database.Database
}

func NewCalendarRepository(db database.Database) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

func (r *CalendarRepository) UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		INSERT INTO calendar_connections
			(host_id, provider, access_token, refresh_token, token_expiry, calendar_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())
		ON CONFLICT (host_id) DO UPDATE
		SET provider = EXCLUDED.provider,
		    access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    token_expiry = EXCLUDED.token_expiry,
		    calendar_id = EXCLUDED.calendar_id,
		    is_active = TRUE,
		    updated_at = NOW()`
	return r.DB.ExecContext(ctx, query,
		conn.HostID, conn.Provider, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiry, conn.CalendarID)
}

func (r *CalendarRepository) GetActiveConnection(ctx context.Context, hostID uuid.UUID) (*entity.CalendarConnection, error) {
	var conn entity.CalendarConnection
	query := `
		SELECT host_id, provider, access_token, refresh_token, token_expiry, calendar_id, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE host_id = $1 AND is_active = TRUE`
	err := r.DB.GetContext(ctx, &conn, query, hostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *CalendarRepository) UpdateTokens(ctx context.Context, hostID uuid.UUID, accessToken string, expiry time.Time) error {
	query := `UPDATE calendar_connections SET access_token = $2, token_expiry = $3, updated_at = NOW() WHERE host_id = $1`
	return r.DB.ExecContext(ctx, query, hostID, accessToken, expiry)
}

func (r *CalendarRepository) DeactivateConnection(ctx context.Context, hostID uuid.UUID) error {
	query := `UPDATE calendar_connections SET is_active = FALSE, updated_at = NOW() WHERE host_id = $1`
	return r.DB.ExecContext(ctx, query, hostID)
}
