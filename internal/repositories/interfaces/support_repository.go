package interfaces

import (
	"context"

	"mecfinder/internal/models"
	"mecfinder/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SupportRepository interface {
	Create(ctx context.Context, query *models.SupportQuery) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SupportQuery, error)
	List(ctx context.Context, filter models.SupportFilter, params *utils.PaginationParams) ([]*models.SupportQuery, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.SupportQuery, error)
	Stats(ctx context.Context) (*models.SupportStats, error)
}
