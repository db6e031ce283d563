package repository

import (
	"context"
	"database/sql"

	"bookly-api/core/database"
	"bookly-api/core/logger"
	"bookly-api/modules/eventtype/entity"

	"github.com/google/uuid"
)

type EventTypeRepositoryInterface interface {
	Create(ctx context.Context, et *entity.EventType) (*entity.EventType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EventType, error)
	GetByHostAndSlug(ctx context.Context, hostID uuid.UUID, slug string) (*entity.EventType, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.EventType, error)
	Update(ctx context.Context, et *entity.EventType) error
	SlugExists(ctx context.Context, hostID uuid.UUID, slug string) (bool, error)
}

type EventTypeRepository struct {
	DB database.Database
}

func NewEventTypeRepository(db database.Database) *EventTypeRepository {
	return &EventTypeRepository{DB: db}
}

const eventTypeColumns = `id, host_id, slug, title, description, duration_minutes, location_type, is_active, price_cents, currency, created_at, updated_at`

func (r *EventTypeRepository) Create(ctx context.Context, et *entity.EventType) (*entity.EventType, error) {
	query := `
		INSERT INTO event_types (host_id, slug, title, description, duration_minutes, location_type, is_active, price_cents, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + eventTypeColumns

	var created entity.EventType
	err := r.DB.GetContext(ctx, &created, query,
		et.HostID, et.Slug, et.Title, et.Description, et.DurationMinutes,
		et.LocationType, et.IsActive, et.PriceCents, et.Currency)
	if err != nil {
		logger.Error("EventTypeRepository:Create", err)
		return nil, err
	}
	return &created, nil
}

func (r *EventTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.EventType, error) {
	query := `SELECT ` + eventTypeColumns + ` FROM event_types WHERE id = $1`

	var et entity.EventType
	err := r.DB.GetContext(ctx, &et, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventTypeRepository:GetByID", err)
		return nil, err
	}
	return &et, nil
}

func (r *EventTypeRepository) GetByHostAndSlug(ctx context.Context, hostID uuid.UUID, slug string) (*entity.EventType, error) {
	query := `SELECT ` + eventTypeColumns + ` FROM event_types WHERE host_id = $1 AND slug = $2`

	var et entity.EventType
	err := r.DB.GetContext(ctx, &et, query, hostID, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventTypeRepository:GetByHostAndSlug", err)
		return nil, err
	}
	return &et, nil
}

func (r *EventTypeRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.EventType, error) {
	query := `SELECT ` + eventTypeColumns + ` FROM event_types WHERE host_id = $1 ORDER BY created_at DESC`

	var items []entity.EventType
	err := r.DB.SelectContext(ctx, &items, query, hostID)
	if err != nil {
		logger.Error("EventTypeRepository:ListByHost", err)
		return nil, err
	}
	return items, nil
}

func (r *EventTypeRepository) Update(ctx context.Context, et *entity.EventType) error {
	query := `
		UPDATE event_types
		SET title = $2, description = $3, duration_minutes = $4, location_type = $5,
		    is_active = $6, price_cents = $7, currency = $8, updated_at = NOW()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query,
		et.ID, et.Title, et.Description, et.DurationMinutes, et.LocationType,
		et.IsActive, et.PriceCents, et.Currency)
	if err != nil {
		logger.Error("EventTypeRepository:Update", err)
		return err
	}
	return nil
}

func (r *EventTypeRepository) SlugExists(ctx context.Context, hostID uuid.UUID, slug string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_types WHERE host_id = $1 AND slug = $2)`
	err := r.DB.GetContext(ctx, &exists, query, hostID, slug)
	if err != nil {
		logger.Error("EventTypeRepository:SlugExists", err)
		return false, err
	}
	return exists, nil
}
