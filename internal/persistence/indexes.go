package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

// indexPlan lists the indexes every collection needs. Unique indexes back
// category-name and user-email uniqueness; the compound product index serves
// the (category, _id) ordering used by per-category previews.
func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{
			collection: CategoriesCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_name")},
			},
		},
		{
			collection: UsersCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
			},
		},
		{
			collection: ProductsCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "category", Value: 1}, {Key: "_id", Value: 1}}, Options: options.Index().SetName("category_id")},
				{Keys: bson.D{{Key: "isFeatured", Value: 1}}, Options: options.Index().SetName("featured")},
			},
		},
	}
}

// EnsureIndexes creates any missing indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no mongo database available; skipping index creation")
		return nil
	}

	count := 0
	for _, plan := range indexPlan() {
		names, err := db.Collection(plan.collection).Indexes().CreateMany(ctx, plan.models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", plan.collection, err)
		}
		logger.Info("indexes ensured", zap.String("collection", plan.collection), zap.Strings("indexes", names))
		count += len(names)
	}

	logger.Info("index bootstrap complete", zap.Int("count", count))
	return nil
}
