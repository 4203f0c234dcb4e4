package services

import (
	"context"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/pricing"
	"mecfinder/pkg/websocket"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PricingService interface {
	Upsert(ctx context.Context, actor Actor, req *validators.UpsertPricingRequest) (*models.Pricing, error)
	List(ctx context.Context, filter models.PricingFilter) ([]*models.Pricing, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Pricing, error)
	Update(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdatePricingRequest) (*models.Pricing, error)
	Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error
	Calculate(req *validators.CalculatePricingRequest) (*pricing.Breakdown, error)
	Export(ctx context.Context, filter models.PricingFilter) ([]byte, error)
}

type pricingService struct {
	pricingRepo  interfaces.PricingRepository
	serviceRepo  interfaces.ServiceRepository
	categoryRepo interfaces.CategoryRepository
	regionRepo   interfaces.RegionRepository
	defaults     pricing.Defaults
	audit        AuditService
	events       *eventBus
	logger       *logger.Logger
}

func NewPricingService(
	pricingRepo interfaces.PricingRepository,
	serviceRepo interfaces.ServiceRepository,
	categoryRepo interfaces.CategoryRepository,
	regionRepo interfaces.RegionRepository,
	defaults pricing.Defaults,
	audit AuditService,
	publisher EventPublisher,
	logger *logger.Logger,
) PricingService {
	return &pricingService{
		pricingRepo:  pricingRepo,
		serviceRepo:  serviceRepo,
		categoryRepo: categoryRepo,
		regionRepo:   regionRepo,
		defaults:     defaults,
		audit:        audit,
		events:       newEventBus(publisher, logger),
		logger:       logger,
	}
}

func (s *pricingService) Upsert(ctx context.Context, actor Actor, req *validators.UpsertPricingRequest) (*models.Pricing, error) {
	serviceID, err := parseObjectID("serviceId", req.ServiceID)
	if err != nil {
		return nil, err
	}
	regionID, err := parseObjectID("regionId", req.RegionID)
	if err != nil {
		return nil, err
	}

	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, translate(err, "service")
	}
	if _, err := s.regionRepo.GetByID(ctx, regionID); err != nil {
		return nil, translate(err, "region")
	}

	// an omitted or zero base price inherits the service default
	basePrice := service.BasePrice
	if req.BasePrice != nil && *req.BasePrice > 0 {
		basePrice = *req.BasePrice
	}
	if pricing.Round(basePrice) <= 0 {
		return nil, fieldError("basePrice", "must be at least 1 rupee")
	}

	breakdown, err := pricing.Calculate(s.defaults.Resolve(basePrice, req.GSTPercent, req.PlatformFeePercent, req.TravelCharge))
	if err != nil {
		return nil, translate(err, "pricing")
	}

	record := &models.Pricing{
		ServiceID: serviceID,
		RegionID:  regionID,
		Status:    models.PricingStatusActive,
		UpdatedBy: actor.AdminID.Hex(),
	}
	record.Apply(breakdown)

	stored, err := s.pricingRepo.Upsert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to save pricing: %w", err)
	}

	if err := s.populate(ctx, stored); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionUpdate, "pricing", stored.ID.Hex(), map[string]interface{}{
		"service_id":  serviceID.Hex(),
		"region_id":   regionID.Hex(),
		"total_price": stored.TotalPrice,
	})
	s.events.emit(ctx, actor, websocket.TopicPricing, "pricing.upserted", stored.ID.Hex(), map[string]interface{}{
		"regionId":  regionID.Hex(),
		"serviceId": serviceID.Hex(),
	})

	return stored, nil
}

func (s *pricingService) List(ctx context.Context, filter models.PricingFilter) ([]*models.Pricing, error) {
	records, err := s.pricingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing: %w", err)
	}
	if err := s.populate(ctx, records...); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *pricingService) Get(ctx context.Context, id primitive.ObjectID) (*models.Pricing, error) {
	record, err := s.pricingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "pricing")
	}
	if err := s.populate(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *pricingService) Update(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdatePricingRequest) (*models.Pricing, error) {
	record, err := s.pricingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "pricing")
	}

	input := pricing.Input{
		BasePrice:          record.BasePrice,
		GSTPercent:         record.GSTPercent,
		PlatformFeePercent: record.PlatformFeePercent,
		TravelCharge:       record.TravelCharge,
	}
	if req.BasePrice != nil {
		input.BasePrice = *req.BasePrice
	}
	if req.GSTPercent != nil {
		input.GSTPercent = *req.GSTPercent
	}
	if req.PlatformFeePercent != nil {
		input.PlatformFeePercent = *req.PlatformFeePercent
	}
	if req.TravelCharge != nil {
		input.TravelCharge = *req.TravelCharge
	}
	if pricing.Round(input.BasePrice) <= 0 {
		return nil, fieldError("basePrice", "must be at least 1 rupee")
	}

	breakdown, err := pricing.Calculate(input)
	if err != nil {
		return nil, translate(err, "pricing")
	}
	record.Apply(breakdown)
	if req.Status != nil {
		record.Status = models.PricingStatus(*req.Status)
	}
	record.UpdatedBy = actor.AdminID.Hex()

	stored, err := s.pricingRepo.Update(ctx, record)
	if err != nil {
		return nil, translate(err, "pricing")
	}
	if err := s.populate(ctx, stored); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionUpdate, "pricing", id.Hex(), map[string]interface{}{
		"total_price": stored.TotalPrice,
		"status":      stored.Status,
	})
	s.events.emit(ctx, actor, websocket.TopicPricing, "pricing.updated", id.Hex(), nil)

	return stored, nil
}

func (s *pricingService) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	if err := s.pricingRepo.Delete(ctx, id); err != nil {
		return translate(err, "pricing")
	}

	s.audit.Record(ctx, actor, models.AuditActionDelete, "pricing", id.Hex(), nil)
	s.events.emit(ctx, actor, websocket.TopicPricing, "pricing.deleted", id.Hex(), nil)
	return nil
}

func (s *pricingService) Calculate(req *validators.CalculatePricingRequest) (*pricing.Breakdown, error) {
	breakdown, err := pricing.Calculate(s.defaults.Resolve(req.BasePrice, req.GSTPercent, req.PlatformFeePercent, req.TravelCharge))
	if err != nil {
		return nil, translate(err, "pricing")
	}
	return breakdown, nil
}

var pricingExportHeader = []string{
	"Region", "Service", "Category", "Base Price", "GST %", "GST Amount",
	"Platform Fee %", "Platform Fee", "Travel Charge", "Total Price",
	"Mechanic Earning", "Company Earning", "Status", "Updated At",
}

// Export renders the filtered records as a single-sheet XLSX workbook.
func (s *pricingService) Export(ctx context.Context, filter models.PricingFilter) ([]byte, error) {
	records, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Pricing"
	if err := xl.SetSheetName(xl.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := xl.SetSheetRow(sheet, "A1", &pricingExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range records {
		row := []interface{}{
			regionName(p), serviceName(p), categoryName(p),
			p.BasePrice, p.GSTPercent, p.GSTAmount,
			p.PlatformFeePercent, p.PlatformFeeAmount, p.TravelCharge, p.TotalPrice,
			p.MechanicEarning, p.CompanyEarning, string(p.Status),
			p.UpdatedAt.UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// populate replaces the raw service and region ids with their summaries.
func (s *pricingService) populate(ctx context.Context, records ...*models.Pricing) error {
	if len(records) == 0 {
		return nil
	}

	serviceIDs := make([]primitive.ObjectID, 0, len(records))
	regionIDs := make([]primitive.ObjectID, 0, len(records))
	for _, p := range records {
		serviceIDs = append(serviceIDs, p.ServiceID)
		regionIDs = append(regionIDs, p.RegionID)
	}

	services, err := s.serviceRepo.GetByIDs(ctx, serviceIDs)
	if err != nil {
		return fmt.Errorf("failed to load services: %w", err)
	}
	regions, err := s.regionRepo.GetByIDs(ctx, regionIDs)
	if err != nil {
		return fmt.Errorf("failed to load regions: %w", err)
	}

	categoryIDs := make([]primitive.ObjectID, 0, len(services))
	for _, svc := range services {
		categoryIDs = append(categoryIDs, svc.CategoryID)
	}
	categories, err := s.categoryRepo.GetByIDs(ctx, categoryIDs)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	for _, p := range records {
		if svc, ok := services[p.ServiceID]; ok {
			if cat, ok := categories[svc.CategoryID]; ok {
				svc.Category = cat.Ref()
			}
			p.Service = svc.Ref()
		}
		if region, ok := regions[p.RegionID]; ok {
			p.Region = region.Ref()
		}
	}
	return nil
}

func regionName(p *models.Pricing) string {
	if p.Region == nil {
		return p.RegionID.Hex()
	}
	return p.Region.Name
}

func serviceName(p *models.Pricing) string {
	if p.Service == nil {
		return p.ServiceID.Hex()
	}
	return p.Service.Name
}

func categoryName(p *models.Pricing) string {
	if p.Service == nil || p.Service.Category == nil {
		return ""
	}
	return p.Service.Category.Name
}
