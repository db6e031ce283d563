package controller

import (
	"bookly-api/core/constants"
	"bookly-api/core/controller"
	"bookly-api/core/errors"
	"bookly-api/core/utils"
	"bookly-api/modules/waitlist/dto"
	"bookly-api/modules/waitlist/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// WaitlistController handles waitlist signup and host listing
type WaitlistController struct {
	controller.BaseController
	WaitlistService service.WaitlistServiceInterface
}

func NewWaitlistController(svc service.WaitlistServiceInterface) *WaitlistController {
	return &WaitlistController{
		BaseController:  controller.NewBaseController(),
		WaitlistService: svc,
	}
}

func (c *WaitlistController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Join handles POST /public/waitlist
// @Summary Join the waitlist for a full date
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param request body dto.JoinWaitlistRequest true "Waitlist signup"
// @Success 200 {object} controller.SuccessResponse
// @Router /public/waitlist [post]
func (c *WaitlistController) Join(ctx echo.Context) error {
	var req dto.JoinWaitlistRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	if appErr := c.WaitlistService.Join(ctx.Request().Context(), &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Added to waitlist")
}

// ListMine handles GET /private/waitlist
// @Summary List the host's waitlist entries
// @Tags Waitlist
// @Security BearerAuth
// @Produce json
// @Success 200 {array} entity.WaitlistEntry
// @Router /private/waitlist [get]
func (c *WaitlistController) ListMine(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	entries, appErr := c.WaitlistService.ListMine(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, entries, "Success")
}
