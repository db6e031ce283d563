package service

import (
	"context"
	"fmt"
	"time"

	"bookly-api/core/constants"
	"bookly-api/core/errors"
	"bookly-api/core/logger"
	"bookly-api/core/queue"
	"bookly-api/core/utils"
	authrepo "bookly-api/modules/auth/repository"
	etrepo "bookly-api/modules/eventtype/repository"
	"bookly-api/modules/waitlist/dto"
	"bookly-api/modules/waitlist/entity"
	"bookly-api/modules/waitlist/repository"

	"github.com/google/uuid"
)

type WaitlistServiceInterface interface {
	Join(ctx context.Context, req *dto.JoinWaitlistRequest) *errors.AppError
	ListMine(ctx context.Context, hostID uuid.UUID) ([]entity.WaitlistEntry, *errors.AppError)

	// Collaborator surface consumed by the booking lifecycle
	RemoveMatching(ctx context.Context, hostID, eventTypeID uuid.UUID, date, email string) error
	SpotOpened(ctx context.Context, hostID, eventTypeID uuid.UUID, date string) error

	// Worker side
	NotifyDate(ctx context.Context, hostID, eventTypeID uuid.UUID, date string) error
}

type WaitlistService struct {
	repo       repository.WaitlistRepositoryInterface
	users      authrepo.AuthRepositoryInterface
	eventTypes etrepo.EventTypeRepositoryInterface
	queue      queue.Client
}

func NewWaitlistService(
	repo repository.WaitlistRepositoryInterface,
	users authrepo.AuthRepositoryInterface,
	eventTypes etrepo.EventTypeRepositoryInterface,
	q queue.Client,
) *WaitlistService {
	return &WaitlistService{repo: repo, users: users, eventTypes: eventTypes, queue: q}
}

func parseDateKey(date string) (time.Time, error) {
	return time.Parse(constants.DateLayout, date)
}

func (s *WaitlistService) Join(ctx context.Context, req *dto.JoinWaitlistRequest) *errors.AppError {
	if req.GuestName == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "guest name is required", nil)
	}
	if !utils.IsValidEmail(req.GuestEmail) {
		return errors.NewAppError(errors.ErrInvalidInput, "invalid guest email", nil)
	}
	dateKey, err := parseDateKey(req.Date)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "invalid date, expected YYYY-MM-DD", err)
	}

	host, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load host", err)
	}
	if host == nil || !host.IsActive {
		return errors.NewAppError(errors.ErrNotFound, "booking page not found", nil)
	}
	eventType, err := s.eventTypes.GetByHostAndSlug(ctx, host.ID, req.EventSlug)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load event type", err)
	}
	if eventType == nil || !eventType.IsActive {
		return errors.NewAppError(errors.ErrNotFound, "booking page not found", nil)
	}

	entry := &entity.WaitlistEntry{
		HostID:      host.ID,
		EventTypeID: eventType.ID,
		Date:        dateKey,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
	}
	entry.ID = uuid.New()

	if err := s.repo.Create(ctx, entry); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to join waitlist", err)
	}
	logger.Info("WaitlistService:Join: joined", "host_id", host.ID, "date", req.Date, "guest_email", req.GuestEmail)
	return nil
}

func (s *WaitlistService) ListMine(ctx context.Context, hostID uuid.UUID) ([]entity.WaitlistEntry, *errors.AppError) {
	entries, err := s.repo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list waitlist", err)
	}
	return entries, nil
}

// RemoveMatching drops the guest's entry once they hold a booking for the
// date.
func (s *WaitlistService) RemoveMatching(ctx context.Context, hostID, eventTypeID uuid.UUID, date, email string) error {
	dateKey, err := parseDateKey(date)
	if err != nil {
		return err
	}
	return s.repo.DeleteMatching(ctx, hostID, eventTypeID, dateKey, email)
}

// SpotOpened defers the notification fan-out to the worker.
func (s *WaitlistService) SpotOpened(ctx context.Context, hostID, eventTypeID uuid.UUID, date string) error {
	return s.queue.EnqueueWaitlistNotify(queue.NotifyWaitlistPayload{
		HostID:      hostID,
		EventTypeID: eventTypeID,
		Date:        date,
	})
}

// NotifyDate emails everyone still waiting on the date and marks them
// notified, so repeated cancellations on one date do not spam.
func (s *WaitlistService) NotifyDate(ctx context.Context, hostID, eventTypeID uuid.UUID, date string) error {
	dateKey, err := parseDateKey(date)
	if err != nil {
		return err
	}

	entries, err := s.repo.ListByHostAndDate(ctx, hostID, eventTypeID, dateKey)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	host, err := s.users.GetUserByID(ctx, hostID)
	if err != nil || host == nil {
		return fmt.Errorf("host %s not found", hostID)
	}
	eventType, err := s.eventTypes.GetByID(ctx, eventTypeID)
	if err != nil || eventType == nil {
		return fmt.Errorf("event type %s not found", eventTypeID)
	}

	bookingPage := fmt.Sprintf("/%s/%s?date=%s", host.Username, eventType.Slug, date)
	notified := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		err := s.queue.EnqueueEmail(queue.EmailPayload{
			To:      []string{entry.GuestEmail},
			Subject: "A slot opened up: " + eventType.Title,
			Body: fmt.Sprintf("Hi %s,\n\nA slot for %s with %s on %s just became available. Book it before someone else does:\n%s\n",
				entry.GuestName, eventType.Title, host.FullName, date, bookingPage),
		})
		if err != nil {
			logger.Warn("WaitlistService:NotifyDate: email enqueue failed", "entry_id", entry.ID, "error", err.Error())
			continue
		}
		notified = append(notified, entry.ID)
	}

	if err := s.repo.MarkNotified(ctx, notified); err != nil {
		return err
	}
	logger.Info("WaitlistService:NotifyDate: notified", "host_id", hostID, "date", date, "count", len(notified))
	return nil
}
