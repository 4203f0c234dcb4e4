package admin

import (
	"fmt"
	"net/http"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PricingHandler struct {
	pricingService services.PricingService
	logger         *logger.Logger
}

func NewPricingHandler(pricingService services.PricingService, logger *logger.Logger) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
		logger:         logger,
	}
}

// Upsert creates or replaces the pricing of a (service, region) pair.
func (h *PricingHandler) Upsert(c *gin.Context) {
	var req validators.UpsertPricingRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateUpsertPricing(&req)) {
		return
	}

	record, err := h.pricingService.Upsert(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, h.logger, err, "Service or region")
		return
	}

	utils.SuccessResponse(c, "Pricing saved successfully", gin.H{"pricing": record})
}

func (h *PricingHandler) List(c *gin.Context) {
	var query validators.PricingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters")
		return
	}
	h.list(c, query)
}

func (h *PricingHandler) ListByRegion(c *gin.Context) {
	h.list(c, validators.PricingListQuery{RegionID: c.Param("regionId"), Status: c.Query("status")})
}

func (h *PricingHandler) ListByService(c *gin.Context) {
	h.list(c, validators.PricingListQuery{ServiceID: c.Param("serviceId"), Status: c.Query("status")})
}

func (h *PricingHandler) list(c *gin.Context, query validators.PricingListQuery) {
	filter, ok := pricingFilter(c, query)
	if !ok {
		return
	}

	records, err := h.pricingService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Pricing")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"pricing": records})
}

func (h *PricingHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "pricing")
	if !ok {
		return
	}

	record, err := h.pricingService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Pricing")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"pricing": record})
}

func (h *PricingHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "pricing")
	if !ok {
		return
	}

	var req validators.UpdatePricingRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateUpdatePricing(&req)) {
		return
	}

	record, err := h.pricingService.Update(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, h.logger, err, "Pricing")
		return
	}

	utils.SuccessResponse(c, "Pricing updated successfully", gin.H{"pricing": record})
}

func (h *PricingHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "pricing")
	if !ok {
		return
	}

	if err := h.pricingService.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, h.logger, err, "Pricing")
		return
	}

	utils.SuccessResponse(c, "Pricing deleted successfully", nil)
}

// Calculate previews a breakdown without persisting anything.
func (h *PricingHandler) Calculate(c *gin.Context) {
	var req validators.CalculatePricingRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}

	breakdown, err := h.pricingService.Calculate(&req)
	if err != nil {
		respondError(c, h.logger, err, "Pricing")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"breakdown": breakdown})
}

// Export streams the filtered pricing table as an XLSX attachment.
func (h *PricingHandler) Export(c *gin.Context) {
	var query validators.PricingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters")
		return
	}
	filter, ok := pricingFilter(c, query)
	if !ok {
		return
	}

	data, err := h.pricingService.Export(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Pricing")
		return
	}

	filename := fmt.Sprintf("pricing-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func pricingFilter(c *gin.Context, query validators.PricingListQuery) (models.PricingFilter, bool) {
	if validationFailed(c, validators.ValidateStruct(&query)) {
		return models.PricingFilter{}, false
	}

	filter := models.PricingFilter{Status: models.PricingStatus(query.Status)}
	if query.ServiceID != "" {
		id, _ := primitive.ObjectIDFromHex(query.ServiceID)
		filter.ServiceID = &id
	}
	if query.RegionID != "" {
		id, _ := primitive.ObjectIDFromHex(query.RegionID)
		filter.RegionID = &id
	}
	return filter, true
}
