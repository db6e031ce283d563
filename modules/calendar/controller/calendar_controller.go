package controller

import (
	"bookly-api/core/constants"
	"bookly-api/core/controller"
	"bookly-api/core/errors"
	"bookly-api/core/utils"
	"bookly-api/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CalendarController handles Google Calendar connection management
type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
}

func NewCalendarController(svc service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

func (c *CalendarController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Connect handles GET /private/calendar/connect
// @Summary Get the Google OAuth consent URL
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /private/calendar/connect [get]
func (c *CalendarController) Connect(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	url, appErr := c.CalendarService.ConnectURL(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, map[string]string{"url": url}, "Success")
}

// Callback handles GET /public/calendar/callback
// @Summary OAuth redirect target
// @Tags Calendar
// @Produce json
// @Param state query string true "Signed state"
// @Param code query string true "Authorization code"
// @Success 200 {object} controller.SuccessResponse
// @Router /public/calendar/callback [get]
func (c *CalendarController) Callback(ctx echo.Context) error {
	appErr := c.CalendarService.HandleCallback(
		ctx.Request().Context(),
		ctx.QueryParam("state"),
		ctx.QueryParam("code"),
	)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Calendar connected")
}

// Status handles GET /private/calendar
// @Summary Get the host's calendar connection
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {object} entity.CalendarConnection
// @Router /private/calendar [get]
func (c *CalendarController) Status(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	conn, appErr := c.CalendarService.GetStatus(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, conn, "Success")
}

// Disconnect handles DELETE /private/calendar
// @Summary Remove the host's calendar connection
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /private/calendar [delete]
func (c *CalendarController) Disconnect(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if appErr := c.CalendarService.Disconnect(ctx.Request().Context(), hostID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Calendar disconnected")
}
