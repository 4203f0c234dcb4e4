package admin

import (
	"mecfinder/internal/models"
	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RegionHandler struct {
	regionService services.RegionService
	logger        *logger.Logger
}

func NewRegionHandler(regionService services.RegionService, logger *logger.Logger) *RegionHandler {
	return &RegionHandler{
		regionService: regionService,
		logger:        logger,
	}
}

func (h *RegionHandler) List(c *gin.Context) {
	regions, err := h.regionService.List(c.Request.Context(), models.RegionStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err, "Region")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"regions": regions})
}

func (h *RegionHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "region")
	if !ok {
		return
	}

	region, err := h.regionService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Region")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"region": region})
}

func (h *RegionHandler) Create(c *gin.Context) {
	var req validators.CreateRegionRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateCreateRegion(&req)) {
		return
	}

	region, err := h.regionService.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, h.logger, err, "Region")
		return
	}

	utils.CreatedResponse(c, "Region created successfully", gin.H{"region": region})
}

func (h *RegionHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "region")
	if !ok {
		return
	}

	var req validators.UpdateRegionRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}

	region, err := h.regionService.Update(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, h.logger, err, "Region")
		return
	}

	utils.SuccessResponse(c, "Region updated successfully", gin.H{"region": region})
}

// Delete removes the region along with its pricing records.
func (h *RegionHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "region")
	if !ok {
		return
	}

	if err := h.regionService.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, h.logger, err, "Region")
		return
	}

	utils.SuccessResponse(c, "Region deleted successfully", nil)
}
