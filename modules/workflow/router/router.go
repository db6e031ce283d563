package router

import (
	"bookly-api/core/middleware"
	"bookly-api/modules/workflow/controller"

	"github.com/labstack/echo/v4"
)

// WorkflowRouter handles workflow management routes
type WorkflowRouter struct {
	Controller *controller.WorkflowController
}

func NewWorkflowRouter(ctrl *controller.WorkflowController) *WorkflowRouter {
	return &WorkflowRouter{Controller: ctrl}
}

// Setup registers workflow routes
func (r *WorkflowRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	priv := v1.Group("/private/workflows", mw.AuthMiddleware())

	priv.POST("", r.Controller.Create)
	priv.GET("", r.Controller.List)
	priv.GET("/:id", r.Controller.Get)
	priv.PUT("/:id", r.Controller.Update)
	priv.DELETE("/:id", r.Controller.Delete)
}
