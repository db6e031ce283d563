package payment

import (
	"bookly-api/core/database"
	"bookly-api/core/middleware"
	"bookly-api/modules/payment/controller"
	"bookly-api/modules/payment/repository"
	"bookly-api/modules/payment/router"
	"bookly-api/modules/payment/service"

	"github.com/labstack/echo/v4"
)

// InitService builds the payment service without routes, so booking can be
// constructed with it first. Call Setup once the booking service exists.
func InitService(db database.Database) *service.PaymentService {
	repo := repository.NewPaymentRepository(db)
	return service.NewPaymentService(repo)
}

// Setup wires the webhook back to booking and registers routes
func Setup(e *echo.Echo, svc *service.PaymentService, bookings service.BookingConfirmer, mw *middleware.Middleware) {
	svc.SetBookingConfirmer(bookings)
	ctrl := controller.NewPaymentController(svc)
	rtr := router.NewPaymentRouter(ctrl)
	rtr.Setup(e, mw)
}
