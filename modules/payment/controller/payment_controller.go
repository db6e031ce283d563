package controller

import (
	"io"

	"bookly-api/core/constants"
	"bookly-api/core/controller"
	"bookly-api/core/errors"
	"bookly-api/core/utils"
	"bookly-api/modules/payment/dto"
	"bookly-api/modules/payment/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PaymentController handles payment connection management and the provider
// webhook
type PaymentController struct {
	controller.BaseController
	PaymentService service.PaymentServiceInterface
}

func NewPaymentController(svc service.PaymentServiceInterface) *PaymentController {
	return &PaymentController{
		BaseController: controller.NewBaseController(),
		PaymentService: svc,
	}
}

func (c *PaymentController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Connect handles POST /private/payments/connection
// @Summary Register the host's Stripe account
// @Tags Payment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ConnectAccountRequest true "Account details"
// @Success 200 {object} entity.PaymentConnection
// @Router /private/payments/connection [post]
func (c *PaymentController) Connect(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ConnectAccountRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	conn, appErr := c.PaymentService.ConnectAccount(ctx.Request().Context(), hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, conn, "Payment account connected")
}

// GetConnection handles GET /private/payments/connection
// @Summary Get the host's payment connection
// @Tags Payment
// @Security BearerAuth
// @Produce json
// @Success 200 {object} entity.PaymentConnection
// @Router /private/payments/connection [get]
func (c *PaymentController) GetConnection(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	conn, appErr := c.PaymentService.GetConnection(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, conn, "Success")
}

// Disconnect handles DELETE /private/payments/connection
// @Summary Remove the host's payment connection
// @Tags Payment
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /private/payments/connection [delete]
func (c *PaymentController) Disconnect(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if appErr := c.PaymentService.DisconnectAccount(ctx.Request().Context(), hostID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Payment account disconnected")
}

// Webhook handles POST /public/payments/webhook
// @Summary Stripe webhook endpoint
// @Tags Payment
// @Accept json
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /public/payments/webhook [post]
func (c *PaymentController) Webhook(ctx echo.Context) error {
	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Unreadable payload")
	}

	signature := ctx.Request().Header.Get("Stripe-Signature")
	appErr := c.PaymentService.HandleWebhook(ctx.Request().Context(), payload, signature)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Received")
}
