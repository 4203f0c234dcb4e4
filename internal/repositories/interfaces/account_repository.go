package interfaces

import (
	"context"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/utils"
	"mecfinder/pkg/moderation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountRepository holds the operations shared by users and mechanics.
type AccountRepository[T models.Bannable] interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (T, error)

	// UpdateStatus sets status on a subject that is not banned. A banned
	// subject yields ErrStateChanged.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (T, error)

	// ApplyBan writes ban and status only if the stored ban flag still equals
	// wasBanned, so two concurrent bans cannot both succeed.
	ApplyBan(ctx context.Context, id primitive.ObjectID, wasBanned bool, ban moderation.BanInfo, status string) (T, error)

	FindExpiredBans(ctx context.Context, now time.Time, limit int64) ([]T, error)
	GetSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.PartySummary, error)
}

type UserRepository interface {
	AccountRepository[*models.User]

	List(ctx context.Context, filter models.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error)
	Count(ctx context.Context, filter models.UserFilter) (int64, error)
}

type MechanicRepository interface {
	AccountRepository[*models.Mechanic]

	List(ctx context.Context, filter models.MechanicFilter, params *utils.PaginationParams) ([]*models.Mechanic, int64, error)
	Count(ctx context.Context, filter models.MechanicFilter) (int64, error)
}

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Count(ctx context.Context) (int64, error)
}
