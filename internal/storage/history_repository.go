package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/bradykim7/mealroulette/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// HistoryRepository stores confirmed picks. Entries are append-only.
type HistoryRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *MongoDB, log *zap.Logger) *HistoryRepository {
	return newHistoryRepository(db.Collection(historyCollection), log)
}

func newHistoryRepository(coll *mongo.Collection, log *zap.Logger) *HistoryRepository {
	return &HistoryRepository{
		coll: coll,
		log:  log.Named("history-repository"),
	}
}

// Record appends entry and fills in its ID
func (r *HistoryRepository) Record(ctx context.Context, entry *models.SelectionHistoryEntry) error {
	res, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to record selection: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = id
	}

	r.log.Debug("Selection recorded",
		zap.String("user_id", entry.UserID),
		zap.String("item", entry.Key()))
	return nil
}

// ListSince returns userID's entries selected at or after since, newest first
func (r *HistoryRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]models.SelectionHistoryEntry, error) {
	filter := bson.M{
		"user_id":     userID,
		"selected_at": bson.M{"$gte": since},
	}
	opts := options.Find().SetSort(bson.D{{Key: "selected_at", Value: -1}})
	return r.find(ctx, filter, opts)
}

// List returns one page of userID's history, newest first, plus the total count
func (r *HistoryRepository) List(ctx context.Context, userID string, page, limit int) ([]models.SelectionHistoryEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	filter := bson.M{"user_id": userID}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "selected_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	entries, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// DeleteByUser removes all of userID's history
func (r *HistoryRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}

	r.log.Info("History cleared",
		zap.String("user_id", userID),
		zap.Int64("deleted", res.DeletedCount))
	return res.DeletedCount, nil
}

// DeleteOlderThan removes entries of every user selected before cutoff
func (r *HistoryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"selected_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *HistoryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.SelectionHistoryEntry, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find history: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.SelectionHistoryEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return entries, nil
}
