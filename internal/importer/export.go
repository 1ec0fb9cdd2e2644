package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// exportVersion is bumped when the file layout changes
const exportVersion = 1

// Export is the portable form of one user's catalog
type Export struct {
	Version     int                  `json:"version"`
	ExportedAt  time.Time            `json:"exported_at"`
	Meals       []*models.Meal       `json:"meals"`
	Restaurants []*models.Restaurant `json:"restaurants"`
}

// ImportResult counts an import per catalog
type ImportResult struct {
	Meals       Result `json:"meals"`
	Restaurants Result `json:"restaurants"`
}

// Export writes userID's meals and restaurants to w as JSON
func (i *Importer) Export(ctx context.Context, userID string, w io.Writer) error {
	meals, err := i.meals.List(ctx, userID, models.Filter{})
	if err != nil {
		return fmt.Errorf("failed to list meals: %w", err)
	}
	restaurants, err := i.restaurants.List(ctx, userID, models.Filter{})
	if err != nil {
		return fmt.Errorf("failed to list restaurants: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&Export{
		Version:     exportVersion,
		ExportedAt:  time.Now().UTC(),
		Meals:       meals,
		Restaurants: restaurants,
	}); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	i.log.Info("Catalog exported",
		zap.String("user_id", userID),
		zap.Int("meals", len(meals)),
		zap.Int("restaurants", len(restaurants)))
	return nil
}

// ImportJSON reads an export and adds its items to userID's catalog.
// Items whose names already exist are skipped; ids and owners in the file are ignored.
func (i *Importer) ImportJSON(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	var data Export
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode import: %w", err)
	}
	if data.Version > exportVersion {
		return nil, fmt.Errorf("unsupported export version %d", data.Version)
	}

	mealNames, err := i.mealNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	restaurantNames, err := i.restaurantNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	result := &ImportResult{}
	for _, m := range data.Meals {
		if m == nil {
			continue
		}
		m.ID = primitive.NilObjectID
		m.UserID = userID
		i.addMeal(ctx, m, mealNames, &result.Meals)
	}
	for _, r := range data.Restaurants {
		if r == nil {
			continue
		}
		r.ID = primitive.NilObjectID
		r.UserID = userID
		i.addRestaurant(ctx, r, restaurantNames, &result.Restaurants)
	}

	i.log.Info("Catalog imported",
		zap.String("user_id", userID),
		zap.Int("meals_added", result.Meals.Added),
		zap.Int("restaurants_added", result.Restaurants.Added))
	return result, nil
}
