package storage

import (
	"context"
	"time"

	"github.com/bradykim7/mealroulette/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RestaurantRepository handles persistence for a user's restaurants
type RestaurantRepository struct {
	repo collectionRepository[models.Restaurant]
}

// NewRestaurantRepository creates a new restaurant repository
func NewRestaurantRepository(db *MongoDB, log *zap.Logger) *RestaurantRepository {
	return newRestaurantRepository(db.Collection(restaurantsCollection), log)
}

func newRestaurantRepository(coll *mongo.Collection, log *zap.Logger) *RestaurantRepository {
	return &RestaurantRepository{
		repo: collectionRepository[models.Restaurant]{
			coll: coll,
			log:  log.Named("restaurant-repository"),
			kind: "restaurant",
		},
	}
}

// Create stores a new restaurant and fills in its ID
func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	now := time.Now()
	if restaurant.CreatedAt.IsZero() {
		restaurant.CreatedAt = now
	}
	restaurant.UpdatedAt = now
	restaurant.Tags = models.NormalizeTags(restaurant.Tags)

	id, err := r.repo.insert(ctx, restaurant)
	if err != nil {
		return err
	}
	restaurant.ID = id

	r.repo.log.Info("Restaurant created",
		zap.String("user_id", restaurant.UserID),
		zap.String("name", restaurant.Name))
	return nil
}

// Get returns one of userID's restaurants
func (r *RestaurantRepository) Get(ctx context.Context, userID, id string) (*models.Restaurant, error) {
	return r.repo.get(ctx, userID, id)
}

// List returns userID's restaurants matching filter, sorted by name
func (r *RestaurantRepository) List(ctx context.Context, userID string, filter models.Filter) ([]*models.Restaurant, error) {
	return r.repo.find(ctx, catalogFilter(userID, filter, true))
}

// Update overwrites the editable fields of an existing restaurant.
// A nil rating clears the stored one.
func (r *RestaurantRepository) Update(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error) {
	set := bson.M{
		"name":        restaurant.Name,
		"cuisine":     restaurant.Cuisine,
		"price_range": restaurant.PriceRange,
		"rating":      restaurant.Rating,
		"address":     restaurant.Address,
		"website":     restaurant.Website,
		"tags":        models.NormalizeTags(restaurant.Tags),
		"is_favorite": restaurant.IsFavorite,
		"notes":       restaurant.Notes,
		"updated_at":  time.Now(),
	}
	return r.repo.update(ctx, restaurant.UserID, restaurant.ID, set)
}

// SetFavorite flags or unflags a restaurant as a favorite
func (r *RestaurantRepository) SetFavorite(ctx context.Context, userID, id string, favorite bool) (*models.Restaurant, error) {
	return r.repo.setFavorite(ctx, userID, id, bson.M{
		"is_favorite": favorite,
		"updated_at":  time.Now(),
	})
}

// Delete removes one of userID's restaurants
func (r *RestaurantRepository) Delete(ctx context.Context, userID, id string) error {
	return r.repo.delete(ctx, userID, id)
}
