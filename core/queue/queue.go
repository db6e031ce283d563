package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"bookly-api/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names shared by the enqueue side and the worker.
const (
	TypeSendEmail      = "email:send"
	TypeSendReminder   = "reminder:send"
	TypeExpirePayment  = "payment:expire"
	TypeRunWorkflow    = "workflow:run"
	TypeNotifyWaitlist = "waitlist:notify"
	TypeSendWebhook    = "webhook:send"
)

type EmailPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	IsHTML  bool     `json:"is_html"`
}

type ReminderPayload struct {
	BookingID uuid.UUID `json:"booking_id"`
}

type ExpirePaymentPayload struct {
	BookingID uuid.UUID `json:"booking_id"`
}

type RunWorkflowPayload struct {
	WorkflowID uuid.UUID `json:"workflow_id"`
	BookingID  uuid.UUID `json:"booking_id"`
}

type NotifyWaitlistPayload struct {
	HostID      uuid.UUID `json:"host_id"`
	EventTypeID uuid.UUID `json:"event_type_id"`
	Date        string    `json:"date"`
}

type WebhookPayload struct {
	URL    string `json:"url"`
	Method string `json:"method"`
	Body   string `json:"body"`
}

// Client enqueues background tasks. The worker (worker package) consumes them.
type Client interface {
	EnqueueEmail(payload EmailPayload) error
	ScheduleReminder(payload ReminderPayload, fireAt time.Time) error
	CancelReminder(bookingID uuid.UUID) error
	SchedulePaymentExpiry(payload ExpirePaymentPayload, fireAt time.Time) error
	EnqueueWorkflow(payload RunWorkflowPayload) error
	EnqueueWaitlistNotify(payload NotifyWaitlistPayload) error
	EnqueueWebhook(payload WebhookPayload) error
	Close() error
}

type client struct {
	asynq     *asynq.Client
	inspector *asynq.Inspector
}

func NewClient(redisOpt asynq.RedisClientOpt) Client {
	return &client{
		asynq:     asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
	}
}

func reminderTaskID(bookingID uuid.UUID) string {
	return "reminder:" + bookingID.String()
}

func (c *client) enqueue(taskType string, payload any, opts ...asynq.Option) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	info, err := c.asynq.Enqueue(asynq.NewTask(taskType, b), opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	logger.Debug("Queue:Enqueued", "type", taskType, "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (c *client) EnqueueEmail(payload EmailPayload) error {
	return c.enqueue(TypeSendEmail, payload, asynq.MaxRetry(3))
}

func (c *client) ScheduleReminder(payload ReminderPayload, fireAt time.Time) error {
	return c.enqueue(TypeSendReminder, payload,
		asynq.ProcessAt(fireAt),
		asynq.TaskID(reminderTaskID(payload.BookingID)),
	)
}

// CancelReminder removes a scheduled reminder. A missing task is not an
// error; the reminder may already have fired or never been scheduled.
func (c *client) CancelReminder(bookingID uuid.UUID) error {
	err := c.inspector.DeleteTask("default", reminderTaskID(bookingID))
	if err != nil && err != asynq.ErrTaskNotFound {
		return err
	}
	return nil
}

func (c *client) SchedulePaymentExpiry(payload ExpirePaymentPayload, fireAt time.Time) error {
	return c.enqueue(TypeExpirePayment, payload, asynq.ProcessAt(fireAt))
}

func (c *client) EnqueueWorkflow(payload RunWorkflowPayload) error {
	return c.enqueue(TypeRunWorkflow, payload, asynq.MaxRetry(5))
}

func (c *client) EnqueueWaitlistNotify(payload NotifyWaitlistPayload) error {
	return c.enqueue(TypeNotifyWaitlist, payload, asynq.MaxRetry(3))
}

func (c *client) EnqueueWebhook(payload WebhookPayload) error {
	return c.enqueue(TypeSendWebhook, payload, asynq.MaxRetry(5))
}

func (c *client) Close() error {
	return c.asynq.Close()
}
