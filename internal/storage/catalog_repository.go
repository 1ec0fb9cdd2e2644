package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collectionRepository holds the CRUD plumbing shared by the meal and
// restaurant catalogs. Every operation is scoped to the owning user.
type collectionRepository[T any] struct {
	coll *mongo.Collection
	log  *zap.Logger
	kind string
}

func (r *collectionRepository[T]) find(ctx context.Context, filter bson.M) ([]*T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetCollation(caseInsensitive)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find %ss: %w", r.kind, err)
	}
	defer cursor.Close(ctx)

	docs := make([]*T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %ss: %w", r.kind, err)
	}
	return docs, nil
}

func (r *collectionRepository[T]) get(ctx context.Context, userID, id string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc T
	err = r.coll.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", r.kind, err)
	}
	return &doc, nil
}

func (r *collectionRepository[T]) insert(ctx context.Context, doc any) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicate
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert %s: %w", r.kind, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected %s id type %T", r.kind, res.InsertedID)
	}
	return oid, nil
}

func (r *collectionRepository[T]) update(ctx context.Context, userID string, id primitive.ObjectID, set bson.M) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", r.kind, err)
	}
	return &doc, nil
}

func (r *collectionRepository[T]) setFavorite(ctx context.Context, userID, id string, set bson.M) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.update(ctx, userID, oid, set)
}

func (r *collectionRepository[T]) delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.kind, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	r.log.Info("Catalog item deleted",
		zap.String("kind", r.kind),
		zap.String("user_id", userID),
		zap.String("id", id))
	return nil
}
