package eventtype

import (
	"bookly-api/core/database"
	"bookly-api/core/middleware"
	authrepository "bookly-api/modules/auth/repository"
	"bookly-api/modules/eventtype/controller"
	"bookly-api/modules/eventtype/repository"
	"bookly-api/modules/eventtype/router"
	"bookly-api/modules/eventtype/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event type module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *service.EventTypeService {
	repo := repository.NewEventTypeRepository(db)
	userRepo := authrepository.NewAuthRepository(db)
	svc := service.NewEventTypeService(repo, userRepo)
	ctrl := controller.NewEventTypeController(svc)
	rtr := router.NewEventTypeRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
