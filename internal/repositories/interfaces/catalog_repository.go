package interfaces

import (
	"context"

	"mecfinder/internal/models"
	"mecfinder/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.ServiceCategory) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceCategory, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.ServiceCategory, error)
	List(ctx context.Context, status models.CatalogStatus) ([]*models.ServiceCategory, error)
	Update(ctx context.Context, category *models.ServiceCategory) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// InsertIfMissing inserts the category unless one with the same name
	// exists. It reports whether a document was inserted.
	InsertIfMissing(ctx context.Context, category *models.ServiceCategory) (bool, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Service, error)
	List(ctx context.Context, filter models.ServiceFilter, params *utils.PaginationParams) ([]*models.Service, int64, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
}

type RegionRepository interface {
	Create(ctx context.Context, region *models.Region) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Region, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Region, error)
	List(ctx context.Context, status models.RegionStatus) ([]*models.Region, error)
	Update(ctx context.Context, region *models.Region) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, status models.RegionStatus) (int64, error)
}
