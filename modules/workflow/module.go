package workflow

import (
	"bookly-api/core/database"
	"bookly-api/core/middleware"
	"bookly-api/core/queue"
	authrepo "bookly-api/modules/auth/repository"
	bookingrepo "bookly-api/modules/booking/repository"
	etrepo "bookly-api/modules/eventtype/repository"
	"bookly-api/modules/workflow/controller"
	"bookly-api/modules/workflow/repository"
	"bookly-api/modules/workflow/router"
	"bookly-api/modules/workflow/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the workflow module and registers routes
func Init(e *echo.Echo, db database.Database, q queue.Client, mw *middleware.Middleware) *service.WorkflowService {
	repo := repository.NewWorkflowRepository(db)
	svc := service.NewWorkflowService(repo, q)
	ctrl := controller.NewWorkflowController(svc)
	rtr := router.NewWorkflowRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}

// NewExecutor builds the worker-side executor over the same repositories.
func NewExecutor(db database.Database, q queue.Client) *service.WorkflowExecutor {
	return service.NewWorkflowExecutor(
		repository.NewWorkflowRepository(db),
		bookingrepo.NewBookingRepository(db),
		authrepo.NewAuthRepository(db),
		etrepo.NewEventTypeRepository(db),
		q,
	)
}
