package router

import (
	"bookly-api/core/middleware"
	"bookly-api/modules/eventtype/controller"

	"github.com/labstack/echo/v4"
)

type EventTypeRouter struct {
	Controller *controller.EventTypeController
}

func NewEventTypeRouter(ctrl *controller.EventTypeController) *EventTypeRouter {
	return &EventTypeRouter{Controller: ctrl}
}

func (r *EventTypeRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	priv := v1.Group("/private/event-types", mw.AuthMiddleware())
	priv.POST("", r.Controller.Create)
	priv.GET("", r.Controller.ListMine)
	priv.GET("/:id", r.Controller.Get)
	priv.PUT("/:id", r.Controller.Update)
	priv.DELETE("/:id", r.Controller.Deactivate)

	v1.GET("/public/:username/:eventSlug", r.Controller.GetPublic)
}
