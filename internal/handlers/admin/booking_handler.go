package admin

import (
	"mecfinder/internal/models"
	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
	logger         *logger.Logger
}

func NewBookingHandler(bookingService services.BookingService, logger *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// List filters by status, paymentMethod and a startDate/endDate window. Dates
// may be RFC 3339 or YYYY-MM-DD; bare dates cover the whole day.
func (h *BookingHandler) List(c *gin.Context) {
	filter := models.BookingFilter{
		Status:        models.BookingStatus(c.Query("status")),
		PaymentMethod: models.PaymentMethod(c.Query("paymentMethod")),
		Search:        validators.SanitizeInput(c.Query("search")),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		utils.BadRequestResponse(c, "Invalid status")
		return
	}

	if raw := c.Query("startDate"); raw != "" {
		start, err := utils.ParseDate(raw)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid startDate")
			return
		}
		start = utils.StartOfDay(start)
		filter.StartDate = &start
	}
	if raw := c.Query("endDate"); raw != "" {
		end, err := utils.ParseDate(raw)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid endDate")
			return
		}
		end = utils.EndOfDay(end)
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		utils.BadRequestResponse(c, "endDate must not be before startDate")
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.List(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, h.logger, err, "Booking")
		return
	}

	utils.PaginatedResponse(c, "bookings", bookings, utils.CreatePaginationMeta(params, total))
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.bookingService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Booking")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"booking": booking})
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "booking")
	if !ok {
		return
	}

	var req validators.BookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), actorFrom(c), id, models.BookingStatus(req.Status), req.Note)
	if err != nil {
		respondError(c, h.logger, err, "Booking")
		return
	}

	utils.SuccessResponse(c, "Booking status updated", gin.H{"booking": booking})
}
