package service

import (
	"context"

	coreentity "bookly-api/core/entity"
	"bookly-api/core/errors"
	"bookly-api/core/logger"
	"bookly-api/core/params"
	"bookly-api/modules/notification/entity"
	"bookly-api/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*coreentity.Pagination[entity.Notification], *errors.AppError)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, *errors.AppError)
	MarkRead(ctx context.Context, userID, id uuid.UUID) *errors.AppError
	MarkAllRead(ctx context.Context, userID uuid.UUID) *errors.AppError

	// Collaborator surface consumed by the booking lifecycle
	Record(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]any)
}

type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo}
}

// Record inserts a notification, logging instead of failing: notifications
// ride along with transitions and must never break them.
func (s *NotificationService) Record(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]any) {
	n := &entity.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    entity.Data(data),
	}
	n.ID = uuid.New()
	if err := s.repo.Create(ctx, n); err != nil {
		logger.Warn("NotificationService:Record: insert failed", err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*coreentity.Pagination[entity.Notification], *errors.AppError) {
	notifications, total, err := s.repo.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list notifications", err)
	}
	if notifications == nil {
		notifications = []entity.Notification{}
	}
	return &coreentity.Pagination[entity.Notification]{
		Items:      notifications,
		TotalItems: total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "failed to count notifications", err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) *errors.AppError {
	marked, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark notification", err)
	}
	if !marked {
		return errors.NewAppError(errors.ErrNotFound, "notification not found or already read", nil)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark notifications", err)
	}
	return nil
}
