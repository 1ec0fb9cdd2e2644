package importer

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/bradykim7/mealroulette/internal/storage"
	"go.uber.org/zap"
)

// RestaurantStore is the restaurant catalog the importer writes to
type RestaurantStore interface {
	List(ctx context.Context, userID string, filter models.Filter) ([]*models.Restaurant, error)
	Create(ctx context.Context, restaurant *models.Restaurant) error
}

// MealStore is the meal catalog the importer writes to
type MealStore interface {
	List(ctx context.Context, userID string, filter models.Filter) ([]*models.Meal, error)
	Create(ctx context.Context, meal *models.Meal) error
}

// Result counts what an import did
type Result struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Importer loads catalog items from external sources
type Importer struct {
	meals       MealStore
	restaurants RestaurantStore
	log         *zap.Logger
}

// New creates an importer
func New(meals MealStore, restaurants RestaurantStore, log *zap.Logger) *Importer {
	return &Importer{
		meals:       meals,
		restaurants: restaurants,
		log:         log.Named("importer"),
	}
}

// Run scrapes every source in parallel and adds unseen restaurants to userID's catalog.
// A failing source is logged and skipped.
func (i *Importer) Run(ctx context.Context, userID string, sources ...Source) (*Result, error) {
	i.log.Info("Starting import", zap.String("user_id", userID), zap.Int("sources", len(sources)))

	var wg sync.WaitGroup
	listingChan := make(chan Listing, 100)

	for _, src := range sources {
		wg.Add(1)
		go func(source Source) {
			defer wg.Done()

			listings, err := source.Listings(ctx)
			if err != nil {
				i.log.Error("Failed to read source",
					zap.String("source", source.Name()),
					zap.Error(err))
				return
			}
			for _, listing := range listings {
				select {
				case listingChan <- listing:
				case <-ctx.Done():
					return
				}
			}
		}(src)
	}

	go func() {
		wg.Wait()
		close(listingChan)
	}()

	existing, err := i.restaurantNames(ctx, userID)
	if err != nil {
		// drain so the producers can exit
		for range listingChan {
		}
		return nil, err
	}

	result := &Result{}
	for listing := range listingChan {
		restaurant := models.NewRestaurant(userID, listing.Name)
		restaurant.Cuisine = listing.Cuisine
		restaurant.Rating = listing.Rating
		restaurant.Address = listing.Address
		restaurant.Website = listing.Website
		restaurant.Tags = listing.Tags

		i.addRestaurant(ctx, restaurant, existing, result)
	}

	i.log.Info("Import completed",
		zap.String("user_id", userID),
		zap.Int("added", result.Added),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (i *Importer) addRestaurant(ctx context.Context, r *models.Restaurant, existing map[string]struct{}, result *Result) {
	key := nameKey(r.Name)
	if _, dup := existing[key]; dup || key == "" {
		result.Skipped++
		return
	}

	err := i.restaurants.Create(ctx, r)
	switch {
	case errors.Is(err, storage.ErrDuplicate):
		result.Skipped++
	case err != nil:
		i.log.Error("Failed to add restaurant", zap.String("name", r.Name), zap.Error(err))
		result.Failed++
		return
	default:
		result.Added++
	}
	existing[key] = struct{}{}
}

func (i *Importer) addMeal(ctx context.Context, m *models.Meal, existing map[string]struct{}, result *Result) {
	key := nameKey(m.Name)
	if _, dup := existing[key]; dup || key == "" {
		result.Skipped++
		return
	}

	err := i.meals.Create(ctx, m)
	switch {
	case errors.Is(err, storage.ErrDuplicate):
		result.Skipped++
	case err != nil:
		i.log.Error("Failed to add meal", zap.String("name", m.Name), zap.Error(err))
		result.Failed++
		return
	default:
		result.Added++
	}
	existing[key] = struct{}{}
}

func (i *Importer) restaurantNames(ctx context.Context, userID string) (map[string]struct{}, error) {
	restaurants, err := i.restaurants.List(ctx, userID, models.Filter{})
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(restaurants))
	for _, r := range restaurants {
		names[nameKey(r.Name)] = struct{}{}
	}
	return names, nil
}

func (i *Importer) mealNames(ctx context.Context, userID string) (map[string]struct{}, error) {
	meals, err := i.meals.List(ctx, userID, models.Filter{})
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(meals))
	for _, m := range meals {
		names[nameKey(m.Name)] = struct{}{}
	}
	return names, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
