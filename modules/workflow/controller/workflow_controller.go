package controller

import (
	"bookly-api/core/constants"
	"bookly-api/core/controller"
	"bookly-api/core/errors"
	"bookly-api/core/utils"
	"bookly-api/modules/workflow/dto"
	"bookly-api/modules/workflow/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// WorkflowController handles workflow management HTTP requests
type WorkflowController struct {
	controller.BaseController
	WorkflowService service.WorkflowServiceInterface
}

func NewWorkflowController(svc service.WorkflowServiceInterface) *WorkflowController {
	return &WorkflowController{
		BaseController:  controller.NewBaseController(),
		WorkflowService: svc,
	}
}

func (c *WorkflowController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// Create handles POST /private/workflows
// @Summary Create a workflow
// @Tags Workflow
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateWorkflowRequest true "Workflow definition"
// @Success 201 {object} entity.Workflow
// @Router /private/workflows [post]
func (c *WorkflowController) Create(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateWorkflowRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	wf, appErr := c.WorkflowService.Create(ctx.Request().Context(), hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, wf, "Workflow created")
}

// List handles GET /private/workflows
// @Summary List the host's workflows
// @Tags Workflow
// @Security BearerAuth
// @Produce json
// @Success 200 {array} entity.Workflow
// @Router /private/workflows [get]
func (c *WorkflowController) List(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	workflows, appErr := c.WorkflowService.List(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, workflows, "Success")
}

// Get handles GET /private/workflows/:id
// @Summary Get a workflow
// @Tags Workflow
// @Security BearerAuth
// @Produce json
// @Param id path string true "Workflow ID"
// @Success 200 {object} entity.Workflow
// @Router /private/workflows/{id} [get]
func (c *WorkflowController) Get(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid workflow id")
	}

	wf, appErr := c.WorkflowService.Get(ctx.Request().Context(), hostID, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, wf, "Success")
}

// Update handles PUT /private/workflows/:id
// @Summary Update a workflow
// @Tags Workflow
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Workflow ID"
// @Param request body dto.UpdateWorkflowRequest true "Fields to change"
// @Success 200 {object} entity.Workflow
// @Router /private/workflows/{id} [put]
func (c *WorkflowController) Update(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid workflow id")
	}

	var req dto.UpdateWorkflowRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	wf, appErr := c.WorkflowService.Update(ctx.Request().Context(), hostID, id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, wf, "Workflow updated")
}

// Delete handles DELETE /private/workflows/:id
// @Summary Delete a workflow
// @Tags Workflow
// @Security BearerAuth
// @Produce json
// @Param id path string true "Workflow ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/workflows/{id} [delete]
func (c *WorkflowController) Delete(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid workflow id")
	}

	if appErr := c.WorkflowService.Delete(ctx.Request().Context(), hostID, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Workflow deleted")
}
