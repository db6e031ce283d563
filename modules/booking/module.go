package booking

import (
	"bookly-api/core/cache"
	"bookly-api/core/database"
	"bookly-api/core/middleware"
	"bookly-api/core/queue"
	authrepo "bookly-api/modules/auth/repository"
	availservice "bookly-api/modules/availability/service"
	"bookly-api/modules/booking/controller"
	"bookly-api/modules/booking/repository"
	"bookly-api/modules/booking/router"
	"bookly-api/modules/booking/service"
	etrepo "bookly-api/modules/eventtype/repository"

	"github.com/labstack/echo/v4"
)

// Deps are the collaborating modules booking reacts with. Any of them may be
// nil; the lifecycle skips the missing ones.
type Deps struct {
	Payments      service.PaymentCollaborator
	Calendar      service.CalendarCollaborator
	Workflows     service.WorkflowDispatcher
	Waitlist      service.WaitlistCollaborator
	Notifications service.NotificationRecorder
}

// Init initializes the booking module and registers routes
func Init(
	e *echo.Echo,
	db database.Database,
	c cache.Cache,
	q queue.Client,
	availability availservice.AvailabilityServiceInterface,
	mw *middleware.Middleware,
	deps Deps,
) *service.BookingService {
	repo := repository.NewBookingRepository(db)
	users := authrepo.NewAuthRepository(db)
	eventTypes := etrepo.NewEventTypeRepository(db)

	slots := service.NewSlotGenerator(repo, availability, users, eventTypes, c)
	lifecycle := service.NewBookingLifecycle(repo, users, eventTypes, q,
		deps.Calendar, deps.Workflows, deps.Waitlist, deps.Notifications)
	svc := service.NewBookingService(repo, slots, deps.Payments, lifecycle)

	ctrl := controller.NewBookingController(svc)
	rtr := router.NewBookingRouter(ctrl)
	rtr.Setup(e, mw)
	return svc
}
