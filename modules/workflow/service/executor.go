package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"bookly-api/core/constants"
	"bookly-api/core/logger"
	"bookly-api/core/queue"
	authrepo "bookly-api/modules/auth/repository"
	bookingentity "bookly-api/modules/booking/entity"
	bookingrepo "bookly-api/modules/booking/repository"
	etrepo "bookly-api/modules/eventtype/repository"
	"bookly-api/modules/workflow/entity"
	"bookly-api/modules/workflow/repository"

	"github.com/google/uuid"
)

// WorkflowExecutor runs one workflow against one booking. It lives on the
// worker side; the API side only enqueues.
type WorkflowExecutor struct {
	workflows  repository.WorkflowRepositoryInterface
	bookings   bookingrepo.BookingRepositoryInterface
	users      authrepo.AuthRepositoryInterface
	eventTypes etrepo.EventTypeRepositoryInterface
	queue      queue.Client
}

func NewWorkflowExecutor(
	workflows repository.WorkflowRepositoryInterface,
	bookings bookingrepo.BookingRepositoryInterface,
	users authrepo.AuthRepositoryInterface,
	eventTypes etrepo.EventTypeRepositoryInterface,
	q queue.Client,
) *WorkflowExecutor {
	return &WorkflowExecutor{
		workflows:  workflows,
		bookings:   bookings,
		users:      users,
		eventTypes: eventTypes,
		queue:      q,
	}
}

// placeholders builds the substitution set for one booking. Unknown
// placeholders in templates are left as-is.
func (e *WorkflowExecutor) placeholders(ctx context.Context, b *bookingentity.Booking) map[string]string {
	values := map[string]string{
		"{{guest_name}}":  b.GuestName,
		"{{guest_email}}": b.GuestEmail,
		"{{event_title}}": "Meeting",
		"{{host_name}}":   "",
		"{{host_email}}":  "",
		"{{date}}":        b.StartTime.UTC().Format(constants.DateLayout),
		"{{start_time}}":  b.StartTime.UTC().Format(constants.HHMMLayout),
		"{{status}}":      string(b.Status),
	}
	if b.MeetingLink != nil {
		values["{{meeting_link}}"] = *b.MeetingLink
	} else {
		values["{{meeting_link}}"] = ""
	}
	if b.CancelReason != nil {
		values["{{cancel_reason}}"] = *b.CancelReason
	} else {
		values["{{cancel_reason}}"] = ""
	}

	if host, err := e.users.GetUserByID(ctx, b.HostID); err == nil && host != nil {
		values["{{host_name}}"] = host.FullName
		values["{{host_email}}"] = host.Email
		if loc, err := time.LoadLocation(host.Timezone); err == nil {
			values["{{date}}"] = b.StartTime.In(loc).Format(constants.DateLayout)
			values["{{start_time}}"] = b.StartTime.In(loc).Format(constants.HHMMLayout)
		}
	}
	if et, err := e.eventTypes.GetByID(ctx, b.EventTypeID); err == nil && et != nil {
		values["{{event_title}}"] = et.Title
	}
	return values
}

func substitute(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Execute runs the workflow's actions in order. A missing workflow or
// booking means the task outlived its subject and is dropped without error.
func (e *WorkflowExecutor) Execute(ctx context.Context, workflowID, bookingID uuid.UUID) error {
	wf, err := e.workflows.GetByID(ctx, workflowID)
	if err != nil {
		return err
	}
	if wf == nil || !wf.IsActive {
		logger.Debug("WorkflowExecutor:Execute: workflow gone or inactive", "workflow_id", workflowID)
		return nil
	}

	booking, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		logger.Debug("WorkflowExecutor:Execute: booking gone", "booking_id", bookingID)
		return nil
	}

	values := e.placeholders(ctx, booking)

	for i, action := range wf.Actions {
		switch action.Kind {
		case entity.ActionSendEmail:
			to := substitute(action.Email.To, values)
			err := e.queue.EnqueueEmail(queue.EmailPayload{
				To:      []string{to},
				Subject: substitute(action.Email.Subject, values),
				Body:    substitute(action.Email.Body, values),
			})
			if err != nil {
				logger.Warn("WorkflowExecutor:Execute: email enqueue failed", "workflow_id", wf.ID, "action", i, "error", err.Error())
			}

		case entity.ActionSendWebhook:
			body, err := json.Marshal(map[string]any{
				"workflow_id": wf.ID,
				"trigger":     wf.Trigger,
				"booking": map[string]any{
					"id":          booking.ID,
					"status":      booking.Status,
					"start_time":  booking.StartTime,
					"end_time":    booking.EndTime,
					"guest_name":  booking.GuestName,
					"guest_email": booking.GuestEmail,
				},
			})
			if err != nil {
				logger.Warn("WorkflowExecutor:Execute: webhook payload failed", err)
				continue
			}
			err = e.queue.EnqueueWebhook(queue.WebhookPayload{
				URL:    action.Webhook.URL,
				Method: "POST",
				Body:   string(body),
			})
			if err != nil {
				logger.Warn("WorkflowExecutor:Execute: webhook enqueue failed", "workflow_id", wf.ID, "action", i, "error", err.Error())
			}
		}
	}

	logger.Info("WorkflowExecutor:Execute: done", "workflow_id", wf.ID, "booking_id", bookingID, "actions", len(wf.Actions))
	return nil
}
