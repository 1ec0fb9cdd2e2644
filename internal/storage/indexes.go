package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureIndexes creates the indices the repositories rely on. Failures are
// logged and skipped so a read-only replica can still serve.
func (m *MongoDB) EnsureIndexes(ctx context.Context) {
	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{
			// Catalog names are unique per user
			collection: mealsCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
			},
		},
		{
			collection: restaurantsCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
			},
		},
		{
			// Recency lookups and per-user paging
			collection: historyCollection,
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "selected_at", Value: -1}},
			},
		},
		{
			// Retention sweeps
			collection: historyCollection,
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "selected_at", Value: 1}},
			},
		},
	}

	for _, idx := range specs {
		name, err := m.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model)
		if err != nil {
			m.log.Warn("Failed to create index",
				zap.String("collection", idx.collection),
				zap.Error(err))
			continue
		}
		m.log.Debug("Index ready",
			zap.String("collection", idx.collection),
			zap.String("index", name))
	}
}

// caseInsensitive makes name comparisons ignore case
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}
