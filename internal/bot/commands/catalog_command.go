package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/bradykim7/mealroulette/internal/storage"
)

// MealCreator stores new meals
type MealCreator interface {
	Create(ctx context.Context, meal *models.Meal) error
}

// RestaurantCreator stores new restaurants
type RestaurantCreator interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
}

// AddMealCommand adds a meal to the caller's catalog
type AddMealCommand struct {
	meals MealCreator
}

// NewAddMealCommand creates the addmeal command
func NewAddMealCommand(meals MealCreator) *AddMealCommand {
	return &AddMealCommand{meals: meals}
}

func (c *AddMealCommand) Execute(ctx context.Context, req *Request) (*Reply, error) {
	args, err := parseItemArgs(req.Args)
	if err != nil {
		return &Reply{Content: err.Error()}, nil
	}
	if args.name() == "" {
		return &Reply{Content: "Usage: " + c.Help()}, nil
	}

	meal := models.NewMeal(req.UserID, args.name())
	meal.Cuisine = args.opts.Filters.Cuisine
	meal.PriceRange = args.opts.Filters.PriceRange
	meal.Tags = args.opts.Filters.Tags
	meal.IsFavorite = args.opts.Filters.FavoritesOnly

	if err := c.meals.Create(ctx, meal); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return &Reply{Content: fmt.Sprintf("**%s** is already on your list.", meal.Name)}, nil
		}
		return nil, err
	}
	return &Reply{Content: fmt.Sprintf("Added meal **%s**.", meal.Name)}, nil
}

func (c *AddMealCommand) Help() string {
	return "addmeal <name> [#tag] [cuisine=x] [price=n] [fav] - add a meal"
}

// AddRestaurantCommand adds a restaurant to the caller's catalog
type AddRestaurantCommand struct {
	restaurants RestaurantCreator
}

// NewAddRestaurantCommand creates the addrestaurant command
func NewAddRestaurantCommand(restaurants RestaurantCreator) *AddRestaurantCommand {
	return &AddRestaurantCommand{restaurants: restaurants}
}

func (c *AddRestaurantCommand) Execute(ctx context.Context, req *Request) (*Reply, error) {
	args, err := parseItemArgs(req.Args)
	if err != nil {
		return &Reply{Content: err.Error()}, nil
	}
	if args.name() == "" {
		return &Reply{Content: "Usage: " + c.Help()}, nil
	}

	restaurant := models.NewRestaurant(req.UserID, args.name())
	restaurant.Cuisine = args.opts.Filters.Cuisine
	restaurant.PriceRange = args.opts.Filters.PriceRange
	restaurant.Rating = args.rating
	restaurant.Tags = args.opts.Filters.Tags
	restaurant.IsFavorite = args.opts.Filters.FavoritesOnly

	if err := c.restaurants.Create(ctx, restaurant); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return &Reply{Content: fmt.Sprintf("**%s** is already on your list.", restaurant.Name)}, nil
		}
		return nil, err
	}
	return &Reply{Content: fmt.Sprintf("Added restaurant **%s**.", restaurant.Name)}, nil
}

func (c *AddRestaurantCommand) Help() string {
	return "addrestaurant <name> [#tag] [cuisine=x] [price=n] [rating=n] [fav] - add a restaurant"
}
