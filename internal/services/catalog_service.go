package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/cache"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/storage"
	"mecfinder/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogService interface {
	ListCategories(ctx context.Context, status models.CatalogStatus) ([]*models.ServiceCategory, error)
	CreateCategory(ctx context.Context, actor Actor, req *validators.CreateCategoryRequest) (*models.ServiceCategory, error)
	UpdateCategory(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdateCategoryRequest) (*models.ServiceCategory, error)
	SetCategoryStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status models.CatalogStatus) (*models.ServiceCategory, error)
	DeleteCategory(ctx context.Context, actor Actor, id primitive.ObjectID) error
	SeedCategories(ctx context.Context, actor Actor) ([]*models.ServiceCategory, int, error)

	ListServices(ctx context.Context, filter models.ServiceFilter, params *utils.PaginationParams) ([]*models.Service, int64, error)
	GetService(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
	CreateService(ctx context.Context, actor Actor, req *validators.CreateServiceRequest) (*models.Service, error)
	UpdateService(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdateServiceRequest) (*models.Service, error)
	DeleteService(ctx context.Context, actor Actor, id primitive.ObjectID) error
	UploadServiceIcon(ctx context.Context, actor Actor, id primitive.ObjectID, filename string, file io.Reader) (*models.Service, error)
}

// DefaultCategories is the catalog installed by SeedCategories.
var DefaultCategories = []models.ServiceCategory{
	{Name: "Engine", Description: "Engine diagnostics and repair", Icon: "engine"},
	{Name: "Brakes", Description: "Brake pads, discs and fluid", Icon: "brakes"},
	{Name: "Electrical", Description: "Battery, wiring and lights", Icon: "electrical"},
	{Name: "Tyres & Wheels", Description: "Puncture repair, alignment and balancing", Icon: "tyres"},
	{Name: "AC & Cooling", Description: "Air conditioning and radiator service", Icon: "ac"},
	{Name: "General Service", Description: "Periodic maintenance and oil change", Icon: "service"},
	{Name: "Body Work", Description: "Dent, scratch and paint repair", Icon: "body"},
	{Name: "Emergency", Description: "Breakdown assistance and towing", Icon: "emergency"},
}

const categoryListTTL = 10 * time.Minute

type catalogService struct {
	categoryRepo interfaces.CategoryRepository
	serviceRepo  interfaces.ServiceRepository
	pricingRepo  interfaces.PricingRepository
	storage      storage.StorageProvider
	cache        Cache
	audit        AuditService
	events       *eventBus
	logger       *logger.Logger
}

func NewCatalogService(
	categoryRepo interfaces.CategoryRepository,
	serviceRepo interfaces.ServiceRepository,
	pricingRepo interfaces.PricingRepository,
	storage storage.StorageProvider,
	cache Cache,
	audit AuditService,
	publisher EventPublisher,
	logger *logger.Logger,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		serviceRepo:  serviceRepo,
		pricingRepo:  pricingRepo,
		storage:      storage,
		cache:        cache,
		audit:        audit,
		events:       newEventBus(publisher, logger),
		logger:       logger,
	}
}

func categoryListKey(status models.CatalogStatus) string {
	if status == "" {
		return utils.CacheKeyCategories + ":all"
	}
	return utils.CacheKeyCategories + ":" + string(status)
}

func (s *catalogService) ListCategories(ctx context.Context, status models.CatalogStatus) ([]*models.ServiceCategory, error) {
	key := categoryListKey(status)
	if s.cache != nil {
		var cached []*models.ServiceCategory
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithError(err).Warn("Failed to read category cache")
		}
	}

	categories, err := s.categoryRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, categories, categoryListTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache categories")
		}
	}
	return categories, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, actor Actor, req *validators.CreateCategoryRequest) (*models.ServiceCategory, error) {
	category := &models.ServiceCategory{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		Status:       models.CatalogStatusActive,
	}
	if req.Status != "" {
		category.Status = models.CatalogStatus(req.Status)
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, translate(err, "category")
	}

	s.categoriesChanged(ctx, actor, models.AuditActionCreate, category.ID)
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdateCategoryRequest) (*models.ServiceCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}

	if req.Name != nil {
		category.Name = validators.SanitizeInput(*req.Name)
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}
	if req.Status != nil {
		category.Status = models.CatalogStatus(*req.Status)
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, translate(err, "category")
	}

	s.categoriesChanged(ctx, actor, models.AuditActionUpdate, id)
	return category, nil
}

func (s *catalogService) SetCategoryStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status models.CatalogStatus) (*models.ServiceCategory, error) {
	if !status.IsValid() {
		return nil, fieldError("status", "must be ACTIVE or INACTIVE")
	}
	raw := string(status)
	return s.UpdateCategory(ctx, actor, id, &validators.UpdateCategoryRequest{Status: &raw})
}

// DeleteCategory refuses to orphan services.
func (s *catalogService) DeleteCategory(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	count, err := s.serviceRepo.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count services: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category still has %d services: %w", count, ErrConflict)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return translate(err, "category")
	}

	s.categoriesChanged(ctx, actor, models.AuditActionDelete, id)
	return nil
}

// SeedCategories inserts any default category that does not exist yet and
// returns the full list with the number of inserted documents.
func (s *catalogService) SeedCategories(ctx context.Context, actor Actor) ([]*models.ServiceCategory, int, error) {
	inserted := 0
	for i, def := range DefaultCategories {
		category := def
		category.DisplayOrder = i + 1
		category.Status = models.CatalogStatusActive

		created, err := s.categoryRepo.InsertIfMissing(ctx, &category)
		if err != nil {
			return nil, inserted, fmt.Errorf("failed to seed category %q: %w", def.Name, err)
		}
		if created {
			inserted++
		}
	}

	if inserted > 0 {
		s.categoriesChanged(ctx, actor, models.AuditActionCreate, primitive.NilObjectID)
	}

	categories, err := s.ListCategories(ctx, "")
	if err != nil {
		return nil, inserted, err
	}
	return categories, inserted, nil
}

func (s *catalogService) categoriesChanged(ctx context.Context, actor Actor, action models.AuditAction, id primitive.ObjectID) {
	if s.cache != nil {
		keys := []string{
			categoryListKey(""),
			categoryListKey(models.CatalogStatusActive),
			categoryListKey(models.CatalogStatusInactive),
		}
		if err := s.cache.Delete(ctx, keys...); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate category cache")
		}
	}

	resourceID := ""
	if !id.IsZero() {
		resourceID = id.Hex()
	}
	s.audit.Record(ctx, actor, action, "category", resourceID, nil)
	s.events.emit(ctx, actor, websocket.TopicCatalog, "category."+string(action), resourceID, nil)
}

func (s *catalogService) ListServices(ctx context.Context, filter models.ServiceFilter, params *utils.PaginationParams) ([]*models.Service, int64, error) {
	services, total, err := s.serviceRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list services: %w", err)
	}
	if err := s.populateCategories(ctx, services...); err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

func (s *catalogService) GetService(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "service")
	}
	if err := s.populateCategories(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *catalogService) CreateService(ctx context.Context, actor Actor, req *validators.CreateServiceRequest) (*models.Service, error) {
	categoryID, err := parseObjectID("categoryId", req.CategoryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, translate(err, "category")
	}

	service := &models.Service{
		CategoryID:    categoryID,
		Name:          req.Name,
		Description:   req.Description,
		BasePrice:     req.BasePrice,
		EstimatedTime: req.EstimatedTime,
		Icon:          req.Icon,
		VehicleTypes:  req.VehicleTypes,
		Status:        models.CatalogStatusActive,
	}
	if req.Status != "" {
		service.Status = models.CatalogStatus(req.Status)
	}

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, translate(err, "service")
	}
	if err := s.populateCategories(ctx, service); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionCreate, "service", service.ID.Hex(), map[string]interface{}{
		"name":       service.Name,
		"base_price": service.BasePrice,
	})
	s.events.emit(ctx, actor, websocket.TopicCatalog, "service.created", service.ID.Hex(), nil)
	return service, nil
}

func (s *catalogService) UpdateService(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdateServiceRequest) (*models.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "service")
	}

	if req.CategoryID != nil {
		categoryID, err := parseObjectID("categoryId", *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
			return nil, translate(err, "category")
		}
		service.CategoryID = categoryID
	}
	if req.Name != nil {
		service.Name = validators.SanitizeInput(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.BasePrice != nil {
		service.BasePrice = *req.BasePrice
	}
	if req.EstimatedTime != nil {
		service.EstimatedTime = *req.EstimatedTime
	}
	if req.Icon != nil {
		service.Icon = *req.Icon
	}
	if req.VehicleTypes != nil {
		service.VehicleTypes = req.VehicleTypes
	}
	if req.Status != nil {
		service.Status = models.CatalogStatus(*req.Status)
	}

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, translate(err, "service")
	}
	if err := s.populateCategories(ctx, service); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionUpdate, "service", id.Hex(), nil)
	s.events.emit(ctx, actor, websocket.TopicCatalog, "service.updated", id.Hex(), nil)
	return service, nil
}

// DeleteService removes the service and every regional price for it.
func (s *catalogService) DeleteService(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return translate(err, "service")
	}

	removed, err := s.pricingRepo.DeleteByService(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("service_id", id.Hex()).Error("Failed to delete pricing for removed service")
	}

	s.audit.Record(ctx, actor, models.AuditActionDelete, "service", id.Hex(), map[string]interface{}{
		"pricing_removed": removed,
	})
	s.events.emit(ctx, actor, websocket.TopicCatalog, "service.deleted", id.Hex(), nil)
	return nil
}

func (s *catalogService) UploadServiceIcon(ctx context.Context, actor Actor, id primitive.ObjectID, filename string, file io.Reader) (*models.Service, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("icon storage is not configured: %w", ErrUpstream)
	}
	if !utils.IsImageFile(filename) {
		return nil, fieldError("icon", "unsupported image type")
	}

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "service")
	}

	data, format, err := utils.ResizeIcon(io.LimitReader(file, utils.MaxIconSize+1), filename, utils.DefaultIconSize)
	if err != nil {
		return nil, fieldError("icon", "could not decode image")
	}

	ext := ".jpg"
	if format == "png" {
		ext = ".png"
	}
	key := fmt.Sprintf("services/icons/%s/%s", id.Hex(), utils.GenerateUniqueFilename("icon"+ext))

	resp, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:          key,
		Reader:       bytes.NewReader(data),
		ContentType:  utils.GetContentType(key),
		Size:         int64(len(data)),
		CacheControl: "public, max-age=31536000",
		Metadata:     map[string]string{"service_id": id.Hex()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload icon: %v: %w", err, ErrUpstream)
	}

	previous := service.Icon
	service.Icon = resp.URL
	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, translate(err, "service")
	}
	if err := s.populateCategories(ctx, service); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionUpdate, "service", id.Hex(), map[string]interface{}{
		"icon":          resp.URL,
		"previous_icon": previous,
	})
	return service, nil
}

func (s *catalogService) populateCategories(ctx context.Context, services ...*models.Service) error {
	if len(services) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.CategoryID)
	}
	categories, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	for _, svc := range services {
		if cat, ok := categories[svc.CategoryID]; ok {
			svc.Category = cat.Ref()
		}
	}
	return nil
}
