package storage

import (
	"context"
	"time"

	"github.com/bradykim7/mealroulette/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MealRepository handles persistence for a user's meals
type MealRepository struct {
	repo collectionRepository[models.Meal]
}

// NewMealRepository creates a new meal repository
func NewMealRepository(db *MongoDB, log *zap.Logger) *MealRepository {
	return newMealRepository(db.Collection(mealsCollection), log)
}

func newMealRepository(coll *mongo.Collection, log *zap.Logger) *MealRepository {
	return &MealRepository{
		repo: collectionRepository[models.Meal]{
			coll: coll,
			log:  log.Named("meal-repository"),
			kind: "meal",
		},
	}
}

// Create stores a new meal and fills in its ID
func (r *MealRepository) Create(ctx context.Context, meal *models.Meal) error {
	now := time.Now()
	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = now
	}
	meal.UpdatedAt = now
	meal.Tags = models.NormalizeTags(meal.Tags)

	id, err := r.repo.insert(ctx, meal)
	if err != nil {
		return err
	}
	meal.ID = id

	r.repo.log.Info("Meal created",
		zap.String("user_id", meal.UserID),
		zap.String("name", meal.Name))
	return nil
}

// Get returns one of userID's meals
func (r *MealRepository) Get(ctx context.Context, userID, id string) (*models.Meal, error) {
	return r.repo.get(ctx, userID, id)
}

// List returns userID's meals matching filter, sorted by name
func (r *MealRepository) List(ctx context.Context, userID string, filter models.Filter) ([]*models.Meal, error) {
	return r.repo.find(ctx, catalogFilter(userID, filter, false))
}

// Update overwrites the editable fields of an existing meal
func (r *MealRepository) Update(ctx context.Context, meal *models.Meal) (*models.Meal, error) {
	return r.repo.update(ctx, meal.UserID, meal.ID, bson.M{
		"name":        meal.Name,
		"cuisine":     meal.Cuisine,
		"price_range": meal.PriceRange,
		"tags":        models.NormalizeTags(meal.Tags),
		"is_favorite": meal.IsFavorite,
		"notes":       meal.Notes,
		"updated_at":  time.Now(),
	})
}

// SetFavorite flags or unflags a meal as a favorite
func (r *MealRepository) SetFavorite(ctx context.Context, userID, id string, favorite bool) (*models.Meal, error) {
	return r.repo.setFavorite(ctx, userID, id, bson.M{
		"is_favorite": favorite,
		"updated_at":  time.Now(),
	})
}

// Delete removes one of userID's meals
func (r *MealRepository) Delete(ctx context.Context, userID, id string) error {
	return r.repo.delete(ctx, userID, id)
}
