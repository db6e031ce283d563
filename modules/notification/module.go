package notification

import (
	"bookly-api/core/database"
	"bookly-api/core/middleware"
	"bookly-api/modules/notification/controller"
	"bookly-api/modules/notification/repository"
	"bookly-api/modules/notification/router"
	"bookly-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
