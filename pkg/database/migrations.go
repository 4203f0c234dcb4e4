package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mecfinder/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(context.Context, *mongo.Database) error
	Down        func(context.Context, *mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	logger     *logger.Logger
	migrations []Migration
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		logger:     log,
		migrations: getMigrations(),
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.logger.Infof("Running migration %d: %s", migration.Version, migration.Description)

		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) Down(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version > currentVersion || migration.Version <= targetVersion {
			continue
		}

		m.logger.Infof("Reverting migration %d: %s", migration.Version, migration.Description)

		if err := migration.Down(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
		}

		previousVersion := targetVersion
		if i > 0 {
			previousVersion = m.migrations[i-1].Version
		}

		if err := m.updateVersion(ctx, previousVersion); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection(CollectionMigrations).FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	_, err := m.db.Collection(CollectionMigrations).ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)
	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create admin and account indexes",
			Up: func(ctx context.Context, db *mongo.Database) error {
				if err := createIndexes(ctx, db, CollectionAdmins, adminIndexes()); err != nil {
					return err
				}
				if err := createIndexes(ctx, db, CollectionUsers, accountIndexes()); err != nil {
					return err
				}
				return createIndexes(ctx, db, CollectionMechanics, mechanicIndexes())
			},
			Down: dropIndexes(CollectionAdmins, CollectionUsers, CollectionMechanics),
		},
		{
			Version:     2,
			Description: "Create catalog and region indexes",
			Up: func(ctx context.Context, db *mongo.Database) error {
				if err := createIndexes(ctx, db, CollectionServiceCategories, categoryIndexes()); err != nil {
					return err
				}
				if err := createIndexes(ctx, db, CollectionServices, serviceIndexes()); err != nil {
					return err
				}
				return createIndexes(ctx, db, CollectionRegions, regionIndexes())
			},
			Down: dropIndexes(CollectionServiceCategories, CollectionServices, CollectionRegions),
		},
		{
			Version:     3,
			Description: "Create pricing indexes with unique service/region key",
			Up: func(ctx context.Context, db *mongo.Database) error {
				return createIndexes(ctx, db, CollectionPricing, pricingIndexes())
			},
			Down: dropIndexes(CollectionPricing),
		},
		{
			Version:     4,
			Description: "Create booking, support and audit indexes",
			Up: func(ctx context.Context, db *mongo.Database) error {
				if err := createIndexes(ctx, db, CollectionBookings, bookingIndexes()); err != nil {
					return err
				}
				if err := createIndexes(ctx, db, CollectionSupportQueries, supportIndexes()); err != nil {
					return err
				}
				return createIndexes(ctx, db, CollectionAuditLogs, auditIndexes())
			},
			Down: dropIndexes(CollectionBookings, CollectionSupportQueries, CollectionAuditLogs),
		},
	}
}

func createIndexes(ctx context.Context, db *mongo.Database, collection string, indexes []mongo.IndexModel) error {
	if _, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", collection, err)
	}
	return nil
}

func dropIndexes(collections ...string) func(context.Context, *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		for _, name := range collections {
			if _, err := db.Collection(name).Indexes().DropAll(ctx); err != nil {
				return fmt.Errorf("failed to drop %s indexes: %w", name, err)
			}
		}
		return nil
	}
}

func adminIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

func accountIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "ban_info.is_banned", Value: 1}, {Key: "ban_info.ban_expires_at", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
}

func mechanicIndexes() []mongo.IndexModel {
	return append(accountIndexes(),
		mongo.IndexModel{Keys: bson.D{{Key: "is_online", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "region_id", Value: 1}}},
	)
}

func categoryIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "display_order", Value: 1}}},
	}
}

func serviceIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}, {Key: "category_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

func regionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
}

func pricingIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "service_id", Value: 1}, {Key: "region_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("service_region_unique"),
		},
		{Keys: bson.D{{Key: "region_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
}

func bookingIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "mechanic_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "payment_method", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
}

func supportIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
}

func auditIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "resource_id", Value: 1}}},
		{Keys: bson.D{{Key: "admin_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
}
