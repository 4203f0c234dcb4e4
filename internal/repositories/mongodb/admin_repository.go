package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type adminRepository struct {
	collection *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) interfaces.AdminRepository {
	return &adminRepository{
		collection: db.Collection(database.CollectionAdmins),
	}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = primitive.NewObjectID()
	admin.Email = strings.ToLower(admin.Email)
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt

	if _, err := r.collection.InsertOne(ctx, admin); err != nil {
		return wrapWriteError(err, "create admin")
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	return findOne[models.Admin](ctx, r.collection, bson.M{"_id": id}, "admin")
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return findOne[models.Admin](ctx, r.collection, bson.M{"email": strings.ToLower(email)}, "admin")
}

func (r *adminRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_login_at": at, "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to update admin last login: %w", err)
	}
	return nil
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
