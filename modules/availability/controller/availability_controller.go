package controller

import (
	"bookly-api/core/constants"
	"bookly-api/core/controller"
	"bookly-api/core/errors"
	"bookly-api/core/utils"
	"bookly-api/modules/availability/dto"
	"bookly-api/modules/availability/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AvailabilityController handles schedule management HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

func (c *AvailabilityController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// GetWeeklySchedule handles GET /private/availability/weekly
// @Summary Get weekly schedule
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Success 200 {array} entity.WeeklyRule
// @Router /private/availability/weekly [get]
func (c *AvailabilityController) GetWeeklySchedule(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	rules, appErr := c.AvailabilityService.GetWeeklySchedule(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, rules, "Success")
}

// ReplaceWeeklySchedule handles PUT /private/availability/weekly
// @Summary Replace weekly schedule wholesale
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ReplaceWeeklyScheduleRequest true "Weekly rules"
// @Router /private/availability/weekly [put]
func (c *AvailabilityController) ReplaceWeeklySchedule(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ReplaceWeeklyScheduleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if appErr := c.AvailabilityService.ReplaceWeeklySchedule(ctx.Request().Context(), hostID, &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Weekly schedule updated")
}

// ListOverrides handles GET /private/availability/overrides?from=...&to=...
func (c *AvailabilityController) ListOverrides(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	from := ctx.QueryParam("from")
	to := ctx.QueryParam("to")
	if from == "" || to == "" {
		return c.BadRequest(errors.ErrInvalidInput, "from and to are required")
	}

	overrides, appErr := c.AvailabilityService.ListOverrides(ctx.Request().Context(), hostID, from, to)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, overrides, "Success")
}

// SetOverrides handles PUT /private/availability/overrides
func (c *AvailabilityController) SetOverrides(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SetOverridesRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if appErr := c.AvailabilityService.SetOverrides(ctx.Request().Context(), hostID, &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Overrides updated")
}

// DeleteOverrides handles DELETE /private/availability/overrides/:date
func (c *AvailabilityController) DeleteOverrides(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if appErr := c.AvailabilityService.DeleteOverrides(ctx.Request().Context(), hostID, ctx.Param("date")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Overrides deleted")
}

// GetConfig handles GET /private/availability/config
func (c *AvailabilityController) GetConfig(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	cfg, appErr := c.AvailabilityService.GetConfig(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cfg, "Success")
}

// UpdateConfig handles PUT /private/availability/config
func (c *AvailabilityController) UpdateConfig(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.UpdateConfigRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	cfg, appErr := c.AvailabilityService.UpdateConfig(ctx.Request().Context(), hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cfg, "Scheduling config updated")
}
