package router

import (
	"bookly-api/core/middleware"
	"bookly-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

// NotificationRouter handles notification routes
type NotificationRouter struct {
	Controller *controller.NotificationController
}

func NewNotificationRouter(ctrl *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{Controller: ctrl}
}

// Setup registers notification routes
func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	priv := v1.Group("/private/notifications", mw.AuthMiddleware())

	priv.GET("", r.Controller.List)
	priv.GET("/unread-count", r.Controller.UnreadCount)
	priv.POST("/:id/read", r.Controller.MarkRead)
	priv.POST("/read-all", r.Controller.MarkAllRead)
}
