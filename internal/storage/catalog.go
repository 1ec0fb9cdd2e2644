package storage

import (
	"context"

	"github.com/bradykim7/mealroulette/internal/models"
	"go.uber.org/zap"
)

// Catalog groups both item repositories and serves as the candidate
// source for random selection
type Catalog struct {
	Meals       *MealRepository
	Restaurants *RestaurantRepository
}

// NewCatalog creates the meal and restaurant repositories
func NewCatalog(db *MongoDB, log *zap.Logger) *Catalog {
	return &Catalog{
		Meals:       NewMealRepository(db, log),
		Restaurants: NewRestaurantRepository(db, log),
	}
}

// ListMeals implements selection.CandidateStore
func (c *Catalog) ListMeals(ctx context.Context, userID string, filter models.Filter) ([]*models.Meal, error) {
	return c.Meals.List(ctx, userID, filter)
}

// ListRestaurants implements selection.CandidateStore
func (c *Catalog) ListRestaurants(ctx context.Context, userID string, filter models.Filter) ([]*models.Restaurant, error) {
	return c.Restaurants.List(ctx, userID, filter)
}
