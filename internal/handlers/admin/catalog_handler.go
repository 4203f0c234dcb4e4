package admin

import (
	"mecfinder/internal/models"
	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"

	"github.com/gin-gonic/gin"
)

const maxIconSize = 5 << 20

type CatalogHandler struct {
	catalogService services.CatalogService
	logger         *logger.Logger
}

func NewCatalogHandler(catalogService services.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context(), models.CatalogStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err, "Category")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"categories": categories})
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req validators.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateCreateCategory(&req)) {
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, h.logger, err, "Category")
		return
	}

	utils.CreatedResponse(c, "Category created successfully", gin.H{"category": category})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "category")
	if !ok {
		return
	}

	var req validators.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, h.logger, err, "Category")
		return
	}

	utils.SuccessResponse(c, "Category updated successfully", gin.H{"category": category})
}

func (h *CatalogHandler) SetCategoryStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "category")
	if !ok {
		return
	}

	var req validators.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}

	category, err := h.catalogService.SetCategoryStatus(c.Request.Context(), actorFrom(c), id, models.CatalogStatus(req.Status))
	if err != nil {
		respondError(c, h.logger, err, "Category")
		return
	}

	utils.SuccessResponse(c, "Category status updated", gin.H{"category": category})
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "category")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, h.logger, err, "Category")
		return
	}

	utils.SuccessResponse(c, "Category deleted successfully", nil)
}

// SeedCategories installs the default categories that are missing.
func (h *CatalogHandler) SeedCategories(c *gin.Context) {
	categories, created, err := h.catalogService.SeedCategories(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err, "Category")
		return
	}

	utils.SuccessResponse(c, "Categories seeded", gin.H{"categories": categories, "created": created})
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	categoryID, err := optionalObjectID(c.Query("categoryId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID")
		return
	}

	filter := models.ServiceFilter{
		CategoryID: categoryID,
		Status:     models.CatalogStatus(c.Query("status")),
		Search:     validators.SanitizeInput(c.Query("search")),
	}
	params := utils.GetPaginationParams(c)

	items, total, err := h.catalogService.ListServices(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, h.logger, err, "Service")
		return
	}

	utils.PaginatedResponse(c, "services", items, utils.CreatePaginationMeta(params, total))
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "service")
	if !ok {
		return
	}

	service, err := h.catalogService.GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Service")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"service": service})
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req validators.CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateCreateService(&req)) {
		return
	}

	service, err := h.catalogService.CreateService(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, h.logger, err, "Category")
		return
	}

	utils.CreatedResponse(c, "Service created successfully", gin.H{"service": service})
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "service")
	if !ok {
		return
	}

	var req validators.UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}

	service, err := h.catalogService.UpdateService(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, h.logger, err, "Service")
		return
	}

	utils.SuccessResponse(c, "Service updated successfully", gin.H{"service": service})
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "service")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteService(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, h.logger, err, "Service")
		return
	}

	utils.SuccessResponse(c, "Service deleted successfully", nil)
}

// UploadIcon accepts a multipart "icon" file.
func (h *CatalogHandler) UploadIcon(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "service")
	if !ok {
		return
	}

	header, err := c.FormFile("icon")
	if err != nil {
		utils.BadRequestResponse(c, "Icon file is required")
		return
	}
	if header.Size > maxIconSize {
		utils.BadRequestResponse(c, "Icon must be 5MB or smaller")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Unable to read icon file")
		return
	}
	defer file.Close()

	service, err := h.catalogService.UploadServiceIcon(c.Request.Context(), actorFrom(c), id, header.Filename, file)
	if err != nil {
		respondError(c, h.logger, err, "Service")
		return
	}

	utils.SuccessResponse(c, "Icon uploaded successfully", gin.H{"service": service})
}
