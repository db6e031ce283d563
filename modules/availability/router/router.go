package router

import (
	"bookly-api/core/middleware"
	"bookly-api/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles schedule management routes
type AvailabilityRouter struct {
	Controller *controller.AvailabilityController
}

func NewAvailabilityRouter(ctrl *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{Controller: ctrl}
}

// Setup registers availability routes
func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	priv := v1.Group("/private/availability", mw.AuthMiddleware())

	priv.GET("/weekly", r.Controller.GetWeeklySchedule)
	priv.PUT("/weekly", r.Controller.ReplaceWeeklySchedule)

	priv.GET("/overrides", r.Controller.ListOverrides)
	priv.PUT("/overrides", r.Controller.SetOverrides)
	priv.DELETE("/overrides/:date", r.Controller.DeleteOverrides)

	priv.GET("/config", r.Controller.GetConfig)
	priv.PUT("/config", r.Controller.UpdateConfig)
}
