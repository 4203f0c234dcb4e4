package admin

import (
	"mecfinder/internal/models"
	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SupportHandler serves the only routes SUPPORT admins can reach.
type SupportHandler struct {
	supportService services.SupportService
	logger         *logger.Logger
}

func NewSupportHandler(supportService services.SupportService, logger *logger.Logger) *SupportHandler {
	return &SupportHandler{
		supportService: supportService,
		logger:         logger,
	}
}

func (h *SupportHandler) List(c *gin.Context) {
	filter := models.SupportFilter{
		Status:   models.SupportStatus(c.Query("status")),
		Priority: models.SupportPriority(c.Query("priority")),
		Category: c.Query("category"),
		Search:   validators.SanitizeInput(c.Query("search")),
	}
	params := utils.GetPaginationParams(c)

	queries, total, err := h.supportService.List(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, h.logger, err, "Support query")
		return
	}

	utils.PaginatedResponse(c, "queries", queries, utils.CreatePaginationMeta(params, total))
}

func (h *SupportHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "support query")
	if !ok {
		return
	}

	query, err := h.supportService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Support query")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"query": query})
}

func (h *SupportHandler) Create(c *gin.Context) {
	var req validators.CreateSupportQueryRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateCreateSupportQuery(&req)) {
		return
	}

	query, err := h.supportService.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, h.logger, err, "User")
		return
	}

	utils.CreatedResponse(c, "Support query created", gin.H{"query": query})
}

func (h *SupportHandler) UpdateStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "support query")
	if !ok {
		return
	}

	var req validators.SupportStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}

	query, err := h.supportService.UpdateStatus(c.Request.Context(), actorFrom(c), id, models.SupportStatus(req.Status), req.Resolution)
	if err != nil {
		respondError(c, h.logger, err, "Support query")
		return
	}

	utils.SuccessResponse(c, "Support query updated", gin.H{"query": query})
}

func (h *SupportHandler) Assign(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "support query")
	if !ok {
		return
	}

	var req validators.AssignSupportRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}
	assignee, _ := primitive.ObjectIDFromHex(req.AssignedTo)

	query, err := h.supportService.Assign(c.Request.Context(), actorFrom(c), id, assignee)
	if err != nil {
		respondError(c, h.logger, err, "Support query or admin")
		return
	}

	utils.SuccessResponse(c, "Support query assigned", gin.H{"query": query})
}

func (h *SupportHandler) Stats(c *gin.Context) {
	stats, err := h.supportService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Support stats")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"stats": stats})
}
