package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/maps"
	"mecfinder/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegionService interface {
	List(ctx context.Context, status models.RegionStatus) ([]*models.Region, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Region, error)
	Create(ctx context.Context, actor Actor, req *validators.CreateRegionRequest) (*models.Region, error)
	Update(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdateRegionRequest) (*models.Region, error)
	Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error
}

type regionService struct {
	regionRepo  interfaces.RegionRepository
	pricingRepo interfaces.PricingRepository
	geocoder    maps.Geocoder
	audit       AuditService
	events      *eventBus
	logger      *logger.Logger
}

func NewRegionService(
	regionRepo interfaces.RegionRepository,
	pricingRepo interfaces.PricingRepository,
	geocoder maps.Geocoder,
	audit AuditService,
	publisher EventPublisher,
	logger *logger.Logger,
) RegionService {
	return &regionService{
		regionRepo:  regionRepo,
		pricingRepo: pricingRepo,
		geocoder:    geocoder,
		audit:       audit,
		events:      newEventBus(publisher, logger),
		logger:      logger,
	}
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and joins the parts with single dashes.
func Slugify(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, " "))
	return strings.Trim(slugInvalid.ReplaceAllString(joined, "-"), "-")
}

func (s *regionService) List(ctx context.Context, status models.RegionStatus) ([]*models.Region, error) {
	regions, err := s.regionRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	return regions, nil
}

func (s *regionService) Get(ctx context.Context, id primitive.ObjectID) (*models.Region, error) {
	region, err := s.regionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "region")
	}
	return region, nil
}

func (s *regionService) Create(ctx context.Context, actor Actor, req *validators.CreateRegionRequest) (*models.Region, error) {
	region := &models.Region{
		Name:    req.Name,
		State:   req.State,
		Country: req.Country,
		Slug:    req.Slug,
		Status:  models.RegionStatusActive,
	}
	if region.Slug == "" {
		region.Slug = Slugify(region.Name, region.State)
	} else {
		region.Slug = Slugify(region.Slug)
	}
	if req.Status != "" {
		region.Status = models.RegionStatus(req.Status)
	}

	s.locate(ctx, region)

	if err := s.regionRepo.Create(ctx, region); err != nil {
		return nil, translate(err, "region")
	}

	s.audit.Record(ctx, actor, models.AuditActionCreate, "region", region.ID.Hex(), map[string]interface{}{
		"name": region.Name,
		"slug": region.Slug,
	})
	s.events.emit(ctx, actor, websocket.TopicCatalog, "region.created", region.ID.Hex(), nil)
	return region, nil
}

func (s *regionService) Update(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdateRegionRequest) (*models.Region, error) {
	region, err := s.regionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "region")
	}

	moved := false
	if req.Name != nil {
		region.Name = validators.SanitizeInput(*req.Name)
		moved = true
	}
	if req.State != nil {
		region.State = validators.SanitizeInput(*req.State)
		moved = true
	}
	if req.Country != nil {
		region.Country = *req.Country
		moved = true
	}
	if req.Slug != nil {
		region.Slug = Slugify(*req.Slug)
	}
	if req.Status != nil {
		region.Status = models.RegionStatus(*req.Status)
	}
	if moved {
		s.locate(ctx, region)
	}

	if err := s.regionRepo.Update(ctx, region); err != nil {
		return nil, translate(err, "region")
	}

	s.audit.Record(ctx, actor, models.AuditActionUpdate, "region", id.Hex(), nil)
	s.events.emit(ctx, actor, websocket.TopicCatalog, "region.updated", id.Hex(), nil)
	return region, nil
}

// Delete removes the region and every price set for it.
func (s *regionService) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	if err := s.regionRepo.Delete(ctx, id); err != nil {
		return translate(err, "region")
	}

	removed, err := s.pricingRepo.DeleteByRegion(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("region_id", id.Hex()).Error("Failed to delete pricing for removed region")
	}

	s.audit.Record(ctx, actor, models.AuditActionDelete, "region", id.Hex(), map[string]interface{}{
		"pricing_removed": removed,
	})
	s.events.emit(ctx, actor, websocket.TopicCatalog, "region.deleted", id.Hex(), nil)
	return nil
}

// locate fills the region center. Geocoding is optional and never blocks a write.
func (s *regionService) locate(ctx context.Context, region *models.Region) {
	if s.geocoder == nil {
		return
	}

	result, err := s.geocoder.Geocode(ctx, &maps.GeocodeRequest{
		Locality: region.Name,
		State:    region.State,
		Country:  region.Country,
	})
	if err != nil {
		s.logger.WithError(err).WithField("region", region.Name).Warn("Failed to geocode region")
		return
	}

	region.Center = &models.GeoPoint{
		Latitude:  result.Coordinates.Latitude,
		Longitude: result.Coordinates.Longitude,
	}
	region.PlaceID = result.PlaceID
}
