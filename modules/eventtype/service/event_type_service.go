package service

import (
	"context"
	"fmt"

	"bookly-api/core/errors"
	"bookly-api/core/logger"
	authrepo "bookly-api/modules/auth/repository"
	"bookly-api/modules/eventtype/dto"
	"bookly-api/modules/eventtype/entity"
	"bookly-api/modules/eventtype/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type EventTypeServiceInterface interface {
	Create(ctx context.Context, hostID uuid.UUID, req *dto.CreateEventTypeRequest) (*entity.EventType, *errors.AppError)
	GetByID(ctx context.Context, hostID, id uuid.UUID) (*entity.EventType, *errors.AppError)
	ListMine(ctx context.Context, hostID uuid.UUID) ([]entity.EventType, *errors.AppError)
	Update(ctx context.Context, hostID, id uuid.UUID, req *dto.UpdateEventTypeRequest) (*entity.EventType, *errors.AppError)
	Deactivate(ctx context.Context, hostID, id uuid.UUID) *errors.AppError
	GetPublic(ctx context.Context, username, eventSlug string) (*dto.PublicEventTypeResponse, *errors.AppError)
}

type EventTypeService struct {
	repo     repository.EventTypeRepositoryInterface
	userRepo authrepo.AuthRepositoryInterface
}

func NewEventTypeService(repo repository.EventTypeRepositoryInterface, userRepo authrepo.AuthRepositoryInterface) *EventTypeService {
	return &EventTypeService{repo: repo, userRepo: userRepo}
}

func validLocation(l string) bool {
	switch entity.LocationType(l) {
	case entity.LocationNone, entity.LocationGoogleMeet, entity.LocationInPerson:
		return true
	}
	return false
}

func (s *EventTypeService) Create(ctx context.Context, hostID uuid.UUID, req *dto.CreateEventTypeRequest) (*entity.EventType, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if req.DurationMinutes < 5 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "duration_minutes must be at least 5", nil)
	}
	location := req.LocationType
	if location == "" {
		location = string(entity.LocationNone)
	}
	if !validLocation(location) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown location_type", nil)
	}
	if req.PriceCents != nil && *req.PriceCents > 0 && (req.Currency == nil || *req.Currency == "") {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "currency is required for priced event types", nil)
	}

	eventSlug, appErr := s.uniqueSlug(ctx, hostID, req.Title)
	if appErr != nil {
		return nil, appErr
	}

	created, err := s.repo.Create(ctx, &entity.EventType{
		HostID:          hostID,
		Slug:            eventSlug,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		LocationType:    entity.LocationType(location),
		IsActive:        true,
		PriceCents:      req.PriceCents,
		Currency:        req.Currency,
	})
	if err != nil {
		logger.Error("EventTypeService:Create", "error", err, "host_id", hostID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event type", err)
	}
	return created, nil
}

// uniqueSlug slugifies the title and appends a numeric suffix on collision.
func (s *EventTypeService) uniqueSlug(ctx context.Context, hostID uuid.UUID, title string) (string, *errors.AppError) {
	base := slug.Make(title)
	if base == "" {
		base = "event"
	}
	candidate := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, hostID, candidate)
		if err != nil {
			return "", errors.NewAppError(errors.ErrInternalServer, "failed to check slug", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *EventTypeService) GetByID(ctx context.Context, hostID, id uuid.UUID) (*entity.EventType, *errors.AppError) {
	et, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event type", err)
	}
	if et == nil || et.HostID != hostID {
		return nil, errors.NewAppError(errors.ErrNotFound, "event type not found", nil)
	}
	return et, nil
}

func (s *EventTypeService) ListMine(ctx context.Context, hostID uuid.UUID) ([]entity.EventType, *errors.AppError) {
	items, err := s.repo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list event types", err)
	}
	return items, nil
}

func (s *EventTypeService) Update(ctx context.Context, hostID, id uuid.UUID, req *dto.UpdateEventTypeRequest) (*entity.EventType, *errors.AppError) {
	et, appErr := s.GetByID(ctx, hostID, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "title must not be empty", nil)
		}
		et.Title = *req.Title
	}
	if req.Description != nil {
		et.Description = req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 5 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "duration_minutes must be at least 5", nil)
		}
		et.DurationMinutes = *req.DurationMinutes
	}
	if req.LocationType != nil {
		if !validLocation(*req.LocationType) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown location_type", nil)
		}
		et.LocationType = entity.LocationType(*req.LocationType)
	}
	if req.IsActive != nil {
		et.IsActive = *req.IsActive
	}
	if req.PriceCents != nil {
		et.PriceCents = req.PriceCents
	}
	if req.Currency != nil {
		et.Currency = req.Currency
	}
	if et.IsPaid() && (et.Currency == nil || *et.Currency == "") {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "currency is required for priced event types", nil)
	}

	if err := s.repo.Update(ctx, et); err != nil {
		logger.Error("EventTypeService:Update", "error", err, "event_type_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update event type", err)
	}
	return et, nil
}

func (s *EventTypeService) Deactivate(ctx context.Context, hostID, id uuid.UUID) *errors.AppError {
	inactive := false
	_, appErr := s.Update(ctx, hostID, id, &dto.UpdateEventTypeRequest{IsActive: &inactive})
	return appErr
}

// GetPublic resolves an event type for the public booking page. NotFound is
// deliberately vague about whether the host or the event type is missing.
func (s *EventTypeService) GetPublic(ctx context.Context, username, eventSlug string) (*dto.PublicEventTypeResponse, *errors.AppError) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up host", err)
	}
	if user == nil || !user.IsActive {
		return nil, errors.NewAppError(errors.ErrNotFound, "not found", nil)
	}

	et, err := s.repo.GetByHostAndSlug(ctx, user.ID, eventSlug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up event type", err)
	}
	if et == nil || !et.IsActive {
		return nil, errors.NewAppError(errors.ErrNotFound, "not found", nil)
	}

	return &dto.PublicEventTypeResponse{
		HostName:        user.FullName,
		Username:        user.Username,
		Slug:            et.Slug,
		Title:           et.Title,
		Description:     et.Description,
		DurationMinutes: et.DurationMinutes,
		LocationType:    string(et.LocationType),
		PriceCents:      et.PriceCents,
		Currency:        et.Currency,
	}, nil
}
