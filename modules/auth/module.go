package auth

import (
	"bookly-api/core/cache"
	"bookly-api/core/database"
	"bookly-api/core/middleware"
	"bookly-api/modules/auth/controller"
	"bookly-api/modules/auth/repository"
	"bookly-api/modules/auth/router"
	"bookly-api/modules/auth/service"
	availservice "bookly-api/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes
func Init(e *echo.Echo, db database.Database, c cache.Cache, avail availservice.AvailabilityServiceInterface, mw *middleware.Middleware) *service.AuthService {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c, avail)
	ctrl := controller.NewAuthController(svc)
	rtr := router.NewAuthRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
