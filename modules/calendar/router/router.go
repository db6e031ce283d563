package router

import (
	"bookly-api/core/middleware"
	"bookly-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

// CalendarRouter handles calendar connection routes
type CalendarRouter struct {
	Controller *controller.CalendarController
}

func NewCalendarRouter(ctrl *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{Controller: ctrl}
}

// Setup registers calendar routes
func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	v1.GET("/public/calendar/callback", r.Controller.Callback)

	priv := v1.Group("/private/calendar", mw.AuthMiddleware())
	priv.GET("", r.Controller.Status)
	priv.GET("/connect", r.Controller.Connect)
	priv.DELETE("", r.Controller.Disconnect)
}
