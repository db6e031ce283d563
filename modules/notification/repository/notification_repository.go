package repository

import (
	"context"
	"database/sql"
	"errors"

	"bookly-api/core/database"
	"bookly-api/core/params"
	"bookly-api/modules/notification/entity"

	"github.com/google/uuid"
)

const notificationColumns = `id, user_id, type, title, message, data, is_read, read_at, created_at, updated_at`

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, p params.QueryParams) ([]entity.Notification, int, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type NotificationRepository struct {
	DB database.Database
}

func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, data, is_read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW(), NOW())`
	return r.DB.ExecContext(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Message, n.Data)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, p params.QueryParams) ([]entity.Notification, int, error) {
	var total int
	err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, err
	}

	var notifications []entity.Notification
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err = r.DB.SelectContext(ctx, &notifications, query,
		userID, p.PageSize, (p.PageNumber-1)*p.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	var updated uuid.UUID
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_read = FALSE
		RETURNING id`
	err := r.DB.GetContext(ctx, &updated, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = TRUE, read_at = NOW(), updated_at = NOW() WHERE user_id = $1 AND is_read = FALSE`
	return r.DB.ExecContext(ctx, query, userID)
}
