package calendar

import (
	"bookly-api/core/database"
	"bookly-api/core/middleware"
	"bookly-api/modules/calendar/controller"
	"bookly-api/modules/calendar/repository"
	"bookly-api/modules/calendar/router"
	"bookly-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the calendar module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *service.CalendarService {
	repo := repository.NewCalendarRepository(db)
	svc := service.NewCalendarService(repo)
	ctrl := controller.NewCalendarController(svc)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
