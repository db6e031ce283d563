package service

import (
	"context"
	"fmt"
	"time"

	"bookly-api/core/constants"
	"bookly-api/core/logger"
	"bookly-api/core/queue"
	authrepo "bookly-api/modules/auth/repository"
	"bookly-api/modules/booking/entity"
	"bookly-api/modules/booking/repository"
	etentity "bookly-api/modules/eventtype/entity"
	etrepo "bookly-api/modules/eventtype/repository"
	wfentity "bookly-api/modules/workflow/entity"
)

// BookingLifecycle runs the side effects of booking transitions: calendar
// events, emails, reminders, workflows, waitlist handling and host
// notifications. Every effect is best effort; a failure is logged and never
// rolls back the transition that triggered it.
type BookingLifecycle struct {
	repo          repository.BookingRepositoryInterface
	users         authrepo.AuthRepositoryInterface
	eventTypes    etrepo.EventTypeRepositoryInterface
	queue         queue.Client
	calendar      CalendarCollaborator
	workflows     WorkflowDispatcher
	waitlist      WaitlistCollaborator
	notifications NotificationRecorder
}

func NewBookingLifecycle(
	repo repository.BookingRepositoryInterface,
	users authrepo.AuthRepositoryInterface,
	eventTypes etrepo.EventTypeRepositoryInterface,
	q queue.Client,
	calendar CalendarCollaborator,
	workflows WorkflowDispatcher,
	waitlist WaitlistCollaborator,
	notifications NotificationRecorder,
) *BookingLifecycle {
	return &BookingLifecycle{
		repo:          repo,
		users:         users,
		eventTypes:    eventTypes,
		queue:         q,
		calendar:      calendar,
		workflows:     workflows,
		waitlist:      waitlist,
		notifications: notifications,
	}
}

type bookingContext struct {
	booking   *entity.Booking
	eventType *etentity.EventType
	hostName  string
	hostEmail string
	hostTZ    string
	title     string
	hostDate  string // booking date in the host's timezone
	hostStart string
}

func (l *BookingLifecycle) load(ctx context.Context, b *entity.Booking) *bookingContext {
	bc := &bookingContext{booking: b, title: "Meeting"}
	if host, err := l.users.GetUserByID(ctx, b.HostID); err == nil && host != nil {
		bc.hostName = host.FullName
		bc.hostEmail = host.Email
		bc.hostTZ = host.Timezone
	}
	if et, err := l.eventTypes.GetByID(ctx, b.EventTypeID); err == nil && et != nil {
		bc.eventType = et
		bc.title = et.Title
	}
	loc, err := time.LoadLocation(bc.hostTZ)
	if err != nil {
		loc = time.UTC
	}
	local := b.StartTime.In(loc)
	bc.hostDate = local.Format(constants.DateLayout)
	bc.hostStart = local.Format(constants.HHMMLayout)
	return bc
}

// OnConfirmed runs after a booking reaches CONFIRMED, either directly at
// creation for free event types or after payment completes.
func (l *BookingLifecycle) OnConfirmed(ctx context.Context, b *entity.Booking) {
	bc := l.load(ctx, b)

	if l.calendar != nil {
		withMeet := bc.eventType != nil && bc.eventType.LocationType == etentity.LocationGoogleMeet
		eventID, meetLink, err := l.calendar.CreateBookingEvent(ctx, b.HostID, b, bc.title, withMeet)
		if err != nil {
			logger.Warn("BookingLifecycle:OnConfirmed: calendar event failed", err)
		} else if eventID != "" {
			var linkPtr *string
			if meetLink != "" {
				linkPtr = &meetLink
			}
			b.CalendarEventID = &eventID
			b.MeetingLink = linkPtr
			if err := l.repo.SetCalendarRefs(ctx, b.ID, &eventID, linkPtr); err != nil {
				logger.Warn("BookingLifecycle:OnConfirmed: failed to store calendar refs", err)
			}
		}
	}

	l.sendConfirmationEmails(bc)
	l.scheduleReminder(b)

	if l.workflows != nil {
		l.workflows.Dispatch(ctx, b.HostID, wfentity.TriggerBookingCreated, b.ID)
		l.workflows.Dispatch(ctx, b.HostID, wfentity.TriggerBookingConfirmed, b.ID)
	}

	if l.waitlist != nil && bc.eventType != nil {
		if err := l.waitlist.RemoveMatching(ctx, b.HostID, b.EventTypeID, bc.hostDate, b.GuestEmail); err != nil {
			logger.Warn("BookingLifecycle:OnConfirmed: waitlist cleanup failed", err)
		}
	}

	if l.notifications != nil {
		l.notifications.Record(ctx, b.HostID, "booking_confirmed",
			"New booking",
			fmt.Sprintf("%s booked %s on %s at %s", b.GuestName, bc.title, bc.hostDate, bc.hostStart),
			map[string]any{"booking_id": b.ID.String()})
	}
}

// OnPendingPayment runs after a paid booking is created and a checkout
// session exists. The hold is communicated to the guest with the deadline.
func (l *BookingLifecycle) OnPendingPayment(ctx context.Context, b *entity.Booking, checkoutURL string) {
	bc := l.load(ctx, b)

	if l.queue != nil {
		body := fmt.Sprintf(
			"Hi %s,\n\nYour booking for %s on %s at %s is held. Complete the payment to confirm it:\n%s\n",
			b.GuestName, bc.title, bc.hostDate, bc.hostStart, checkoutURL)
		if b.PaymentExpiresAt != nil {
			body += fmt.Sprintf("\nThe hold expires at %s.\n", b.PaymentExpiresAt.UTC().Format(time.RFC1123))
		}
		err := l.queue.EnqueueEmail(queue.EmailPayload{
			To:      []string{b.GuestEmail},
			Subject: "Complete your payment for " + bc.title,
			Body:    body,
		})
		if err != nil {
			logger.Warn("BookingLifecycle:OnPendingPayment: email enqueue failed", err)
		}

		if b.PaymentExpiresAt != nil {
			err := l.queue.SchedulePaymentExpiry(queue.ExpirePaymentPayload{BookingID: b.ID}, *b.PaymentExpiresAt)
			if err != nil {
				logger.Warn("BookingLifecycle:OnPendingPayment: expiry schedule failed", err)
			}
		}
	}
}

// OnCancelled runs after a booking reaches CANCELLED, from either side.
func (l *BookingLifecycle) OnCancelled(ctx context.Context, b *entity.Booking) {
	bc := l.load(ctx, b)

	if l.calendar != nil && b.CalendarEventID != nil {
		if err := l.calendar.DeleteBookingEvent(ctx, b.HostID, *b.CalendarEventID); err != nil {
			logger.Warn("BookingLifecycle:OnCancelled: calendar cleanup failed", err)
		}
	}

	if l.queue != nil {
		reason := ""
		if b.CancelReason != nil && *b.CancelReason != "" {
			reason = "\nReason: " + *b.CancelReason + "\n"
		}
		err := l.queue.EnqueueEmail(queue.EmailPayload{
			To:      []string{b.GuestEmail},
			Subject: "Booking cancelled: " + bc.title,
			Body: fmt.Sprintf("Hi %s,\n\nYour booking for %s on %s at %s was cancelled.\n%s",
				b.GuestName, bc.title, bc.hostDate, bc.hostStart, reason),
		})
		if err != nil {
			logger.Warn("BookingLifecycle:OnCancelled: guest email enqueue failed", err)
		}
		if bc.hostEmail != "" {
			err := l.queue.EnqueueEmail(queue.EmailPayload{
				To:      []string{bc.hostEmail},
				Subject: "Booking cancelled: " + bc.title,
				Body: fmt.Sprintf("The booking by %s for %s on %s at %s was cancelled.\n%s",
					b.GuestName, bc.title, bc.hostDate, bc.hostStart, reason),
			})
			if err != nil {
				logger.Warn("BookingLifecycle:OnCancelled: host email enqueue failed", err)
			}
		}
		if err := l.queue.CancelReminder(b.ID); err != nil {
			logger.Warn("BookingLifecycle:OnCancelled: reminder cancel failed", err)
		}
	}

	if l.workflows != nil {
		l.workflows.Dispatch(ctx, b.HostID, wfentity.TriggerBookingCancelled, b.ID)
	}

	// A freed slot may interest waitlisted guests. Pending-payment holds
	// never notified anyone of a taken slot beyond slot generation, but the
	// spot still opens up either way.
	if l.waitlist != nil {
		if err := l.waitlist.SpotOpened(ctx, b.HostID, b.EventTypeID, bc.hostDate); err != nil {
			logger.Warn("BookingLifecycle:OnCancelled: waitlist notify failed", err)
		}
	}

	if l.notifications != nil {
		l.notifications.Record(ctx, b.HostID, "booking_cancelled",
			"Booking cancelled",
			fmt.Sprintf("%s's booking for %s on %s at %s was cancelled", b.GuestName, bc.title, bc.hostDate, bc.hostStart),
			map[string]any{"booking_id": b.ID.String()})
	}
}

func (l *BookingLifecycle) sendConfirmationEmails(bc *bookingContext) {
	if l.queue == nil {
		return
	}
	b := bc.booking

	guestBody := fmt.Sprintf("Hi %s,\n\nYour booking for %s with %s is confirmed: %s at %s (%s).\n",
		b.GuestName, bc.title, bc.hostName, bc.hostDate, bc.hostStart, bc.hostTZ)
	if b.MeetingLink != nil {
		guestBody += "\nJoin: " + *b.MeetingLink + "\n"
	}
	guestBody += "\nNeed to cancel? Use this link token: " + b.CancellationToken + "\n"
	err := l.queue.EnqueueEmail(queue.EmailPayload{
		To:      []string{b.GuestEmail},
		Subject: "Confirmed: " + bc.title,
		Body:    guestBody,
	})
	if err != nil {
		logger.Warn("BookingLifecycle:sendConfirmationEmails: guest email enqueue failed", err)
	}

	if bc.hostEmail == "" {
		return
	}
	err = l.queue.EnqueueEmail(queue.EmailPayload{
		To:      []string{bc.hostEmail},
		Subject: "New booking: " + bc.title,
		Body: fmt.Sprintf("%s (%s) booked %s on %s at %s.\n",
			b.GuestName, b.GuestEmail, bc.title, bc.hostDate, bc.hostStart),
	})
	if err != nil {
		logger.Warn("BookingLifecycle:sendConfirmationEmails: host email enqueue failed", err)
	}
}

func (l *BookingLifecycle) scheduleReminder(b *entity.Booking) {
	if l.queue == nil {
		return
	}
	fireAt := b.StartTime.Add(-constants.ReminderLeadTime)
	if fireAt.Before(time.Now()) {
		return
	}
	if err := l.queue.ScheduleReminder(queue.ReminderPayload{BookingID: b.ID}, fireAt); err != nil {
		logger.Warn("BookingLifecycle:scheduleReminder: enqueue failed", err)
	}
}
