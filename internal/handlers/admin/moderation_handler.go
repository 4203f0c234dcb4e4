package admin

import (
	"mecfinder/internal/models"
	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/moderation"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ModerationHandler serves the user and mechanic account routes.
type ModerationHandler struct {
	moderationService services.ModerationService
	logger            *logger.Logger
}

func NewModerationHandler(moderationService services.ModerationService, logger *logger.Logger) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
		logger:            logger,
	}
}

func (h *ModerationHandler) ListUsers(c *gin.Context) {
	filter := models.UserFilter{
		Status: models.UserStatus(c.Query("status")),
		Search: validators.SanitizeInput(c.Query("search")),
	}
	params := utils.GetPaginationParams(c)

	users, total, err := h.moderationService.ListUsers(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, h.logger, err, "User")
		return
	}

	utils.PaginatedResponse(c, "users", users, utils.CreatePaginationMeta(params, total))
}

func (h *ModerationHandler) GetUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "user")
	if !ok {
		return
	}

	user, stats, err := h.moderationService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "User")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"user": user, "stats": stats})
}

func (h *ModerationHandler) UpdateUserStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "user")
	if !ok {
		return
	}

	var req validators.UserStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}

	user, err := h.moderationService.UpdateUserStatus(c.Request.Context(), actorFrom(c), id, models.UserStatus(req.Status))
	if err != nil {
		respondError(c, h.logger, err, "User")
		return
	}

	utils.SuccessResponse(c, "User status updated", gin.H{"user": user})
}

func (h *ModerationHandler) BanUser(c *gin.Context) {
	id, req, ok := h.banRequest(c, "user")
	if !ok {
		return
	}

	user, err := h.moderationService.BanUser(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, h.logger, err, "User")
		return
	}

	utils.SuccessResponse(c, "User banned successfully", gin.H{"user": user})
}

func (h *ModerationHandler) UnbanUser(c *gin.Context) {
	id, req, ok := h.unbanRequest(c, "user")
	if !ok {
		return
	}

	user, err := h.moderationService.UnbanUser(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, h.logger, err, "User")
		return
	}

	utils.SuccessResponse(c, "User unbanned successfully", gin.H{"user": user})
}

func (h *ModerationHandler) ListMechanics(c *gin.Context) {
	isOnline, err := optionalBool(c.Query("isOnline"))
	if err != nil {
		utils.BadRequestResponse(c, "isOnline must be true or false")
		return
	}

	filter := models.MechanicFilter{
		Status:   models.MechanicStatus(c.Query("status")),
		Search:   validators.SanitizeInput(c.Query("search")),
		IsOnline: isOnline,
	}
	params := utils.GetPaginationParams(c)

	mechanics, total, err := h.moderationService.ListMechanics(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, h.logger, err, "Mechanic")
		return
	}

	utils.PaginatedResponse(c, "mechanics", mechanics, utils.CreatePaginationMeta(params, total))
}

func (h *ModerationHandler) GetMechanic(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "mechanic")
	if !ok {
		return
	}

	mechanic, stats, err := h.moderationService.GetMechanic(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Mechanic")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"mechanic": mechanic, "stats": stats})
}

func (h *ModerationHandler) UpdateMechanicStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "mechanic")
	if !ok {
		return
	}

	var req validators.MechanicStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}

	mechanic, err := h.moderationService.UpdateMechanicStatus(c.Request.Context(), actorFrom(c), id, models.MechanicStatus(req.Status), req.Reason)
	if err != nil {
		respondError(c, h.logger, err, "Mechanic")
		return
	}

	utils.SuccessResponse(c, "Mechanic status updated", gin.H{"mechanic": mechanic})
}

func (h *ModerationHandler) BanMechanic(c *gin.Context) {
	id, req, ok := h.banRequest(c, "mechanic")
	if !ok {
		return
	}

	mechanic, err := h.moderationService.BanMechanic(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, h.logger, err, "Mechanic")
		return
	}

	utils.SuccessResponse(c, "Mechanic banned successfully", gin.H{"mechanic": mechanic})
}

func (h *ModerationHandler) UnbanMechanic(c *gin.Context) {
	id, req, ok := h.unbanRequest(c, "mechanic")
	if !ok {
		return
	}

	mechanic, err := h.moderationService.UnbanMechanic(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, h.logger, err, "Mechanic")
		return
	}

	utils.SuccessResponse(c, "Mechanic unbanned successfully", gin.H{"mechanic": mechanic})
}

func (h *ModerationHandler) banRequest(c *gin.Context, resource string) (primitive.ObjectID, moderation.BanRequest, bool) {
	id, ok := objectIDParam(c, "id", resource)
	if !ok {
		return id, moderation.BanRequest{}, false
	}

	var body validators.BanRequest
	if !bindJSON(c, &body) {
		return id, moderation.BanRequest{}, false
	}

	req, errs := validators.ValidateBan(&body)
	if validationFailed(c, errs) {
		return id, moderation.BanRequest{}, false
	}
	return id, req, true
}

// unbanRequest tolerates an empty body since the reason is optional.
func (h *ModerationHandler) unbanRequest(c *gin.Context, resource string) (primitive.ObjectID, moderation.UnbanRequest, bool) {
	id, ok := objectIDParam(c, "id", resource)
	if !ok {
		return id, moderation.UnbanRequest{}, false
	}

	var body validators.UnbanRequest
	if !bindOptionalJSON(c, &body) {
		return id, moderation.UnbanRequest{}, false
	}
	if validationFailed(c, validators.ValidateStruct(&body)) {
		return id, moderation.UnbanRequest{}, false
	}
	return id, moderation.UnbanRequest{Reason: body.Reason}, true
}
