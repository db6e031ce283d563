package waitlist

import (
	"bookly-api/core/database"
	"bookly-api/core/middleware"
	"bookly-api/core/queue"
	authrepo "bookly-api/modules/auth/repository"
	etrepo "bookly-api/modules/eventtype/repository"
	"bookly-api/modules/waitlist/controller"
	"bookly-api/modules/waitlist/repository"
	"bookly-api/modules/waitlist/router"
	"bookly-api/modules/waitlist/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the waitlist module and registers routes
func Init(e *echo.Echo, db database.Database, q queue.Client, mw *middleware.Middleware) *service.WaitlistService {
	repo := repository.NewWaitlistRepository(db)
	users := authrepo.NewAuthRepository(db)
	eventTypes := etrepo.NewEventTypeRepository(db)
	svc := service.NewWaitlistService(repo, users, eventTypes, q)
	ctrl := controller.NewWaitlistController(svc)
	rtr := router.NewWaitlistRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}

// NewWorkerService builds the service without routes for the worker process.
func NewWorkerService(db database.Database, q queue.Client) *service.WaitlistService {
	return service.NewWaitlistService(
		repository.NewWaitlistRepository(db),
		authrepo.NewAuthRepository(db),
		etrepo.NewEventTypeRepository(db),
		q,
	)
}
