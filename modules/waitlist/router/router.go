package router

import (
	"bookly-api/core/middleware"
	"bookly-api/modules/waitlist/controller"

	"github.com/labstack/echo/v4"
)

// WaitlistRouter handles waitlist routes
type WaitlistRouter struct {
	Controller *controller.WaitlistController
}

func NewWaitlistRouter(ctrl *controller.WaitlistController) *WaitlistRouter {
	return &WaitlistRouter{Controller: ctrl}
}

// Setup registers waitlist routes
func (r *WaitlistRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	v1.POST("/public/waitlist", r.Controller.Join)

	priv := v1.Group("/private/waitlist", mw.AuthMiddleware())
	priv.GET("", r.Controller.ListMine)
}
