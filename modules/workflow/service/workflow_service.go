package service

import (
	"context"
	"net/url"
	"strings"

	"bookly-api/core/errors"
	"bookly-api/core/logger"
	"bookly-api/core/queue"
	"bookly-api/modules/workflow/dto"
	"bookly-api/modules/workflow/entity"
	"bookly-api/modules/workflow/repository"

	"github.com/google/uuid"
)

type WorkflowServiceInterface interface {
	Create(ctx context.Context, hostID uuid.UUID, req *dto.CreateWorkflowRequest) (*entity.Workflow, *errors.AppError)
	List(ctx context.Context, hostID uuid.UUID) ([]entity.Workflow, *errors.AppError)
	Get(ctx context.Context, hostID, id uuid.UUID) (*entity.Workflow, *errors.AppError)
	Update(ctx context.Context, hostID, id uuid.UUID, req *dto.UpdateWorkflowRequest) (*entity.Workflow, *errors.AppError)
	Delete(ctx context.Context, hostID, id uuid.UUID) *errors.AppError
	Dispatch(ctx context.Context, hostID uuid.UUID, trigger string, bookingID uuid.UUID)
}

type WorkflowService struct {
	repo  repository.WorkflowRepositoryInterface
	queue queue.Client
}

func NewWorkflowService(repo repository.WorkflowRepositoryInterface, q queue.Client) *WorkflowService {
	return &WorkflowService{repo: repo, queue: q}
}

func validTrigger(trigger string) bool {
	switch trigger {
	case entity.TriggerBookingCreated, entity.TriggerBookingConfirmed, entity.TriggerBookingCancelled:
		return true
	}
	return false
}

func validateActions(actions entity.Actions) *errors.AppError {
	if len(actions) == 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "at least one action is required", nil)
	}
	for _, action := range actions {
		switch action.Kind {
		case entity.ActionSendEmail:
			if action.Email == nil || action.Email.To == "" || action.Email.Subject == "" {
				return errors.NewAppError(errors.ErrInvalidInput, "email actions need a recipient and a subject", nil)
			}
		case entity.ActionSendWebhook:
			if action.Webhook == nil {
				return errors.NewAppError(errors.ErrInvalidInput, "webhook actions need a URL", nil)
			}
			parsed, err := url.Parse(action.Webhook.URL)
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
				return errors.NewAppError(errors.ErrInvalidInput, "webhook URL must be absolute http(s)", nil)
			}
		default:
			return errors.NewAppError(errors.ErrInvalidInput, "unknown action kind: "+action.Kind, nil)
		}
	}
	return nil
}

func (s *WorkflowService) Create(ctx context.Context, hostID uuid.UUID, req *dto.CreateWorkflowRequest) (*entity.Workflow, *errors.AppError) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name is required", nil)
	}
	if !validTrigger(req.Trigger) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown trigger: "+req.Trigger, nil)
	}
	if appErr := validateActions(req.Actions); appErr != nil {
		return nil, appErr
	}

	wf := &entity.Workflow{
		HostID:   hostID,
		Name:     strings.TrimSpace(req.Name),
		Trigger:  req.Trigger,
		Actions:  req.Actions,
		IsActive: true,
	}
	wf.ID = uuid.New()

	created, err := s.repo.Create(ctx, wf)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create workflow", err)
	}
	logger.Info("WorkflowService:Create: created", "workflow_id", created.ID, "trigger", created.Trigger)
	return created, nil
}

func (s *WorkflowService) List(ctx context.Context, hostID uuid.UUID) ([]entity.Workflow, *errors.AppError) {
	workflows, err := s.repo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list workflows", err)
	}
	return workflows, nil
}

func (s *WorkflowService) Get(ctx context.Context, hostID, id uuid.UUID) (*entity.Workflow, *errors.AppError) {
	wf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load workflow", err)
	}
	if wf == nil || wf.HostID != hostID {
		return nil, errors.NewAppError(errors.ErrNotFound, "workflow not found", nil)
	}
	return wf, nil
}

func (s *WorkflowService) Update(ctx context.Context, hostID, id uuid.UUID, req *dto.UpdateWorkflowRequest) (*entity.Workflow, *errors.AppError) {
	wf, appErr := s.Get(ctx, hostID, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "name cannot be empty", nil)
		}
		wf.Name = strings.TrimSpace(*req.Name)
	}
	if req.Trigger != nil {
		if !validTrigger(*req.Trigger) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown trigger: "+*req.Trigger, nil)
		}
		wf.Trigger = *req.Trigger
	}
	if req.Actions != nil {
		if appErr := validateActions(*req.Actions); appErr != nil {
			return nil, appErr
		}
		wf.Actions = *req.Actions
	}
	if req.IsActive != nil {
		wf.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, wf); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update workflow", err)
	}
	return wf, nil
}

func (s *WorkflowService) Delete(ctx context.Context, hostID, id uuid.UUID) *errors.AppError {
	if _, appErr := s.Get(ctx, hostID, id); appErr != nil {
		return appErr
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete workflow", err)
	}
	return nil
}

// Dispatch enqueues every active workflow on the trigger. Called from the
// booking lifecycle; failures are logged and swallowed.
func (s *WorkflowService) Dispatch(ctx context.Context, hostID uuid.UUID, trigger string, bookingID uuid.UUID) {
	workflows, err := s.repo.ListActiveByTrigger(ctx, hostID, trigger)
	if err != nil {
		logger.Warn("WorkflowService:Dispatch: listing failed", err)
		return
	}
	for _, wf := range workflows {
		if err := s.queue.EnqueueWorkflow(queue.RunWorkflowPayload{WorkflowID: wf.ID, BookingID: bookingID}); err != nil {
			logger.Warn("WorkflowService:Dispatch: enqueue failed", "workflow_id", wf.ID, "error", err.Error())
		}
	}
}
