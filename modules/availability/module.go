package availability

import (
	"bookly-api/core/database"
	"bookly-api/core/middleware"
	"bookly-api/modules/availability/controller"
	"bookly-api/modules/availability/repository"
	"bookly-api/modules/availability/router"
	"bookly-api/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *service.AvailabilityService {
	repo := repository.NewAvailabilityRepository(db)
	svc := service.NewAvailabilityService(repo)
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
