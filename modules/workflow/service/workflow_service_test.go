package service

import (
	"context"
	"testing"

	"bookly-api/core/errors"
	"bookly-api/core/queue"
	"bookly-api/modules/workflow/dto"
	"bookly-api/modules/workflow/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() *dto.CreateWorkflowRequest {
	return &dto.CreateWorkflowRequest{
		Name:    "Thank you note",
		Trigger: entity.TriggerBookingConfirmed,
		Actions: entity.Actions{{
			Kind:  entity.ActionSendEmail,
			Email: &entity.EmailAction{To: "{{guest_email}}", Subject: "Thanks!", Body: "See you soon"},
		}},
	}
}

func TestCreateWorkflow_Succeeds(t *testing.T) {
	repo := new(mockWorkflowRepo)
	svc := NewWorkflowService(repo, nil)
	hostID := uuid.New()

	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Workflow")).
		Return(&entity.Workflow{HostID: hostID, Name: "Thank you note"}, nil)

	wf, appErr := svc.Create(context.Background(), hostID, validCreateRequest())
	require.Nil(t, appErr)
	assert.Equal(t, "Thank you note", wf.Name)
}

func TestCreateWorkflow_RejectsUnknownTrigger(t *testing.T) {
	svc := NewWorkflowService(new(mockWorkflowRepo), nil)
	req := validCreateRequest()
	req.Trigger = "booking_rescheduled"

	_, appErr := svc.Create(context.Background(), uuid.New(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCreateWorkflow_RejectsEmptyActions(t *testing.T) {
	svc := NewWorkflowService(new(mockWorkflowRepo), nil)
	req := validCreateRequest()
	req.Actions = entity.Actions{}

	_, appErr := svc.Create(context.Background(), uuid.New(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCreateWorkflow_RejectsRelativeWebhookURL(t *testing.T) {
	svc := NewWorkflowService(new(mockWorkflowRepo), nil)
	req := validCreateRequest()
	req.Actions = entity.Actions{{
		Kind:    entity.ActionSendWebhook,
		Webhook: &entity.WebhookAction{URL: "/internal/hook"},
	}}

	_, appErr := svc.Create(context.Background(), uuid.New(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestDispatch_EnqueuesEachActiveWorkflow(t *testing.T) {
	repo := new(mockWorkflowRepo)
	q := new(mockQueueClient)
	svc := NewWorkflowService(repo, q)

	hostID := uuid.New()
	bookingID := uuid.New()
	first := entity.Workflow{HostID: hostID, Trigger: entity.TriggerBookingCancelled, IsActive: true}
	first.ID = uuid.New()
	second := entity.Workflow{HostID: hostID, Trigger: entity.TriggerBookingCancelled, IsActive: true}
	second.ID = uuid.New()

	repo.On("ListActiveByTrigger", mock.Anything, hostID, entity.TriggerBookingCancelled).
		Return([]entity.Workflow{first, second}, nil)
	q.On("EnqueueWorkflow", queue.RunWorkflowPayload{WorkflowID: first.ID, BookingID: bookingID}).Return(nil)
	q.On("EnqueueWorkflow", queue.RunWorkflowPayload{WorkflowID: second.ID, BookingID: bookingID}).Return(nil)

	svc.Dispatch(context.Background(), hostID, entity.TriggerBookingCancelled, bookingID)
	q.AssertNumberOfCalls(t, "EnqueueWorkflow", 2)
}

func TestGetWorkflow_ForeignHostIsNotFound(t *testing.T) {
	repo := new(mockWorkflowRepo)
	svc := NewWorkflowService(repo, nil)

	wf := &entity.Workflow{HostID: uuid.New()}
	wf.ID = uuid.New()
	repo.On("GetByID", mock.Anything, wf.ID).Return(wf, nil)

	_, appErr := svc.Get(context.Background(), uuid.New(), wf.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
