package controller

import (
	"bookly-api/core/constants"
	"bookly-api/core/controller"
	"bookly-api/core/errors"
	"bookly-api/core/utils"
	"bookly-api/modules/booking/dto"
	"bookly-api/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BookingController handles public booking pages and host booking management
type BookingController struct {
	controller.BaseController
	BookingService service.BookingServiceInterface
}

func NewBookingController(svc service.BookingServiceInterface) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		BookingService: svc,
	}
}

func (c *BookingController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// AvailableDays handles GET /public/:username/:eventSlug/available-days
// @Summary List dates with free slots in a month
// @Tags Booking
// @Produce json
// @Param username path string true "Host username"
// @Param eventSlug path string true "Event type slug"
// @Param month query string true "Month YYYY-MM"
// @Success 200 {object} dto.AvailableDaysResponse
// @Router /public/{username}/{eventSlug}/available-days [get]
func (c *BookingController) AvailableDays(ctx echo.Context) error {
	resp, appErr := c.BookingService.AvailableDays(
		ctx.Request().Context(),
		ctx.Param("username"),
		ctx.Param("eventSlug"),
		ctx.QueryParam("month"),
	)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Success")
}

// Slots handles GET /public/:username/:eventSlug/slots
// @Summary List free start times for a date
// @Tags Booking
// @Produce json
// @Param username path string true "Host username"
// @Param eventSlug path string true "Event type slug"
// @Param date query string true "Date YYYY-MM-DD (host timezone)"
// @Param timezone query string true "Guest IANA timezone"
// @Success 200 {object} dto.SlotsResponse
// @Router /public/{username}/{eventSlug}/slots [get]
func (c *BookingController) Slots(ctx echo.Context) error {
	timezone := ctx.QueryParam("timezone")
	if timezone == "" {
		timezone = "UTC"
	}
	resp, appErr := c.BookingService.Slots(
		ctx.Request().Context(),
		ctx.Param("username"),
		ctx.Param("eventSlug"),
		ctx.QueryParam("date"),
		timezone,
	)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Success")
}

// Create handles POST /public/bookings
// @Summary Book a slot
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} dto.BookingResponse
// @Failure 409 {object} echo.HTTPError "Slot no longer available"
// @Router /public/bookings [post]
func (c *BookingController) Create(ctx echo.Context) error {
	var req dto.CreateBookingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	resp, appErr := c.BookingService.CreateBooking(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, resp, "Booking created")
}

// CancelByToken handles POST /public/bookings/cancel/:token
// @Summary Cancel a booking with its cancellation token
// @Tags Booking
// @Accept json
// @Produce json
// @Param token path string true "Cancellation token"
// @Param request body dto.CancelBookingRequest false "Optional reason"
// @Success 200 {object} dto.BookingResponse
// @Router /public/bookings/cancel/{token} [post]
func (c *BookingController) CancelByToken(ctx echo.Context) error {
	var req dto.CancelBookingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	resp, appErr := c.BookingService.CancelByToken(ctx.Request().Context(), ctx.Param("token"), req.Reason)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Booking cancelled")
}

// ListMine handles GET /private/bookings
// @Summary List the host's bookings
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Success 200 {array} entity.Booking
// @Router /private/bookings [get]
func (c *BookingController) ListMine(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var query dto.ListBookingsQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid query parameters")
	}

	bookings, appErr := c.BookingService.ListMine(ctx.Request().Context(), hostID, &query)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, bookings, "Success")
}

// GetMine handles GET /private/bookings/:id
// @Summary Get one of the host's bookings
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} entity.Booking
// @Router /private/bookings/{id} [get]
func (c *BookingController) GetMine(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking id")
	}

	booking, appErr := c.BookingService.GetMine(ctx.Request().Context(), hostID, bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, booking, "Success")
}

// Cancel handles POST /private/bookings/:id/cancel
// @Summary Cancel one of the host's bookings
// @Tags Booking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CancelBookingRequest false "Optional reason"
// @Success 200 {object} entity.Booking
// @Router /private/bookings/{id}/cancel [post]
func (c *BookingController) Cancel(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking id")
	}

	var req dto.CancelBookingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	booking, appErr := c.BookingService.CancelByHost(ctx.Request().Context(), hostID, bookingID, req.Reason)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, booking, "Booking cancelled")
}
