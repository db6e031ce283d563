package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bookly-api/core/constants"
	"bookly-api/core/database"
	"bookly-api/core/logger"
	"bookly-api/core/queue"
	"bookly-api/core/utils"
	authrepo "bookly-api/modules/auth/repository"
	"bookly-api/modules/booking/entity"
	bookingrepo "bookly-api/modules/booking/repository"
	bookingservice "bookly-api/modules/booking/service"
	etrepo "bookly-api/modules/eventtype/repository"
	waitlistmodule "bookly-api/modules/waitlist"
	waitlistservice "bookly-api/modules/waitlist/service"
	workflowmodule "bookly-api/modules/workflow"
	workflowservice "bookly-api/modules/workflow/service"

	"github.com/hibiken/asynq"
)

// Worker consumes the background tasks enqueued by the HTTP side: emails,
// reminders, payment-hold expiries, workflow runs, waitlist notifications
// and outgoing webhooks.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux

	bookings   bookingrepo.BookingRepositoryInterface
	users      authrepo.AuthRepositoryInterface
	eventTypes etrepo.EventTypeRepositoryInterface

	bookingSvc *bookingservice.BookingService
	executor   *workflowservice.WorkflowExecutor
	waitlist   *waitlistservice.WaitlistService

	httpClient *http.Client
}

func New(redisOpt asynq.RedisClientOpt, db database.Database, q queue.Client, bookingSvc *bookingservice.BookingService) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
		Logger: asynqLogger{},
	})

	w := &Worker{
		srv:        srv,
		mux:        asynq.NewServeMux(),
		bookings:   bookingrepo.NewBookingRepository(db),
		users:      authrepo.NewAuthRepository(db),
		eventTypes: etrepo.NewEventTypeRepository(db),
		bookingSvc: bookingSvc,
		executor:   workflowmodule.NewExecutor(db, q),
		waitlist:   waitlistmodule.NewWorkerService(db, q),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	w.mux.HandleFunc(queue.TypeSendEmail, w.handleSendEmail)
	w.mux.HandleFunc(queue.TypeSendReminder, w.handleSendReminder)
	w.mux.HandleFunc(queue.TypeExpirePayment, w.handleExpirePayment)
	w.mux.HandleFunc(queue.TypeRunWorkflow, w.handleRunWorkflow)
	w.mux.HandleFunc(queue.TypeNotifyWaitlist, w.handleNotifyWaitlist)
	w.mux.HandleFunc(queue.TypeSendWebhook, w.handleSendWebhook)

	return w
}

// Start runs the consumer in the background. The process keeps serving HTTP
// while tasks are processed.
func (w *Worker) Start() {
	go func() {
		logger.Info("Worker:Start: consuming background tasks")
		if err := w.srv.Run(w.mux); err != nil {
			logger.Error("Worker:Start: worker stopped", err)
		}
	}()
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func (w *Worker) handleSendEmail(ctx context.Context, task *asynq.Task) error {
	var p queue.EmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("Worker:handleSendEmail: invalid payload", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	err := utils.SendEmailTLS(utils.EmailMessage{
		To:      p.To,
		Subject: p.Subject,
		Body:    p.Body,
		IsHTML:  p.IsHTML,
	})
	if err != nil {
		logger.Warn("Worker:handleSendEmail: delivery failed", "subject", p.Subject, "error", err)
		return err
	}
	logger.Debug("Worker:handleSendEmail: delivered", "subject", p.Subject)
	return nil
}

// handleSendReminder fires shortly before a booking starts. The booking is
// re-read at fire time; a cancelled or missing booking silently drops the
// reminder.
func (w *Worker) handleSendReminder(ctx context.Context, task *asynq.Task) error {
	var p queue.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("Worker:handleSendReminder: invalid payload", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	booking, err := w.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return err
	}
	if booking == nil || booking.Status != entity.BookingStatusConfirmed {
		logger.Debug("Worker:handleSendReminder: booking no longer reminder-worthy", "booking_id", p.BookingID)
		return nil
	}

	title := "your meeting"
	if et, err := w.eventTypes.GetByID(ctx, booking.EventTypeID); err == nil && et != nil {
		title = et.Title
	}

	hostTZ := "UTC"
	hostEmail := ""
	if host, err := w.users.GetUserByID(ctx, booking.HostID); err == nil && host != nil {
		hostTZ = host.Timezone
		hostEmail = host.Email
	}
	loc, err := time.LoadLocation(hostTZ)
	if err != nil {
		loc = time.UTC
	}
	local := booking.StartTime.In(loc)
	when := fmt.Sprintf("%s at %s (%s)", local.Format(constants.DateLayout), local.Format(constants.HHMMLayout), hostTZ)

	guestBody := fmt.Sprintf("Hi %s,\n\nA reminder that %s is coming up: %s.\n", booking.GuestName, title, when)
	if booking.MeetingLink != nil {
		guestBody += "\nJoin: " + *booking.MeetingLink + "\n"
	}
	if err := utils.SendEmailTLS(utils.EmailMessage{
		To:      []string{booking.GuestEmail},
		Subject: "Reminder: " + title,
		Body:    guestBody,
	}); err != nil {
		logger.Warn("Worker:handleSendReminder: guest email failed", "booking_id", p.BookingID, "error", err)
		return err
	}

	if hostEmail != "" {
		err := utils.SendEmailTLS(utils.EmailMessage{
			To:      []string{hostEmail},
			Subject: "Reminder: " + title,
			Body:    fmt.Sprintf("Your booking with %s is coming up: %s.\n", booking.GuestName, when),
		})
		if err != nil {
			logger.Warn("Worker:handleSendReminder: host email failed", "booking_id", p.BookingID, "error", err)
		}
	}
	return nil
}

func (w *Worker) handleExpirePayment(ctx context.Context, task *asynq.Task) error {
	var p queue.ExpirePaymentPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("Worker:handleExpirePayment: invalid payload", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return w.bookingSvc.ExpirePayment(ctx, p.BookingID)
}

func (w *Worker) handleRunWorkflow(ctx context.Context, task *asynq.Task) error {
	var p queue.RunWorkflowPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("Worker:handleRunWorkflow: invalid payload", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return w.executor.Execute(ctx, p.WorkflowID, p.BookingID)
}

func (w *Worker) handleNotifyWaitlist(ctx context.Context, task *asynq.Task) error {
	var p queue.NotifyWaitlistPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("Worker:handleNotifyWaitlist: invalid payload", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return w.waitlist.NotifyDate(ctx, p.HostID, p.EventTypeID, p.Date)
}

// handleSendWebhook delivers a workflow webhook. Non-2xx responses count as
// failures so asynq retries with backoff.
func (w *Worker) handleSendWebhook(ctx context.Context, task *asynq.Task) error {
	var p queue.WebhookPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("Worker:handleSendWebhook: invalid payload", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	method := p.Method
	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(ctx, method, p.URL, bytes.NewReader([]byte(p.Body)))
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		logger.Warn("Worker:handleSendWebhook: request failed", "url", p.URL, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		logger.Warn("Worker:handleSendWebhook: non-success response", "url", p.URL, "status", resp.StatusCode)
		return fmt.Errorf("webhook %s returned %d", p.URL, resp.StatusCode)
	}
	logger.Debug("Worker:handleSendWebhook: delivered", "url", p.URL, "status", resp.StatusCode)
	return nil
}

// asynqLogger routes asynq's internal logging through the app logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.Debug(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...interface{})  { logger.Info(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...interface{})  { logger.Warn(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...interface{}) { logger.Error(fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...interface{}) { logger.Error(fmt.Sprint(args...)) }
