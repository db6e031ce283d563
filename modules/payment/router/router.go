package router

import (
	"bookly-api/core/middleware"
	"bookly-api/modules/payment/controller"

	"github.com/labstack/echo/v4"
)

// PaymentRouter handles payment connection and webhook routes
type PaymentRouter struct {
	Controller *controller.PaymentController
}

func NewPaymentRouter(ctrl *controller.PaymentController) *PaymentRouter {
	return &PaymentRouter{Controller: ctrl}
}

// Setup registers payment routes
func (r *PaymentRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	v1.POST("/public/payments/webhook", r.Controller.Webhook)

	priv := v1.Group("/private/payments", mw.AuthMiddleware())
	priv.POST("/connection", r.Controller.Connect)
	priv.GET("/connection", r.Controller.GetConnection)
	priv.DELETE("/connection", r.Controller.Disconnect)
}
