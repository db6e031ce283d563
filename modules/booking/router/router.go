package router

import (
	"bookly-api/core/middleware"
	"bookly-api/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

// BookingRouter handles public booking and host booking management routes
type BookingRouter struct {
	Controller *controller.BookingController
}

func NewBookingRouter(ctrl *controller.BookingController) *BookingRouter {
	return &BookingRouter{Controller: ctrl}
}

// Setup registers booking routes
func (r *BookingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	pub := v1.Group("/public")
	pub.GET("/:username/:eventSlug/available-days", r.Controller.AvailableDays)
	pub.GET("/:username/:eventSlug/slots", r.Controller.Slots)
	pub.POST("/bookings", r.Controller.Create)
	pub.POST("/bookings/cancel/:token", r.Controller.CancelByToken)

	priv := v1.Group("/private/bookings", mw.AuthMiddleware())
	priv.GET("", r.Controller.ListMine)
	priv.GET("/:id", r.Controller.GetMine)
	priv.POST("/:id/cancel", r.Controller.Cancel)
}
