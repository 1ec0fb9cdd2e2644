package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/bradykim7/mealroulette/internal/storage"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ItemStore is the persistence surface of one catalog
type ItemStore[T any] interface {
	Create(ctx context.Context, item *T) error
	Get(ctx context.Context, userID, id string) (*T, error)
	List(ctx context.Context, userID string, filter models.Filter) ([]*T, error)
	Update(ctx context.Context, item *T) (*T, error)
	SetFavorite(ctx context.Context, userID, id string, favorite bool) (*T, error)
	Delete(ctx context.Context, userID, id string) error
}

type mealRequest struct {
	Name       string   `json:"name" binding:"required,max=100"`
	Cuisine    string   `json:"cuisine" binding:"max=50"`
	PriceRange int      `json:"price_range" binding:"omitempty,min=1,max=4"`
	Tags       []string `json:"tags" binding:"max=20,dive,max=30"`
	IsFavorite bool     `json:"is_favorite"`
	Notes      string   `json:"notes" binding:"max=500"`
}

type restaurantRequest struct {
	Name       string   `json:"name" binding:"required,max=100"`
	Cuisine    string   `json:"cuisine" binding:"max=50"`
	PriceRange int      `json:"price_range" binding:"omitempty,min=1,max=4"`
	Rating     *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	Address    string   `json:"address" binding:"max=200"`
	Website    string   `json:"website" binding:"omitempty,url"`
	Tags       []string `json:"tags" binding:"max=20,dive,max=30"`
	IsFavorite bool     `json:"is_favorite"`
	Notes      string   `json:"notes" binding:"max=500"`
}

type favoriteRequest struct {
	IsFavorite *bool `json:"is_favorite" binding:"required"`
}

type listQuery struct {
	models.Filter
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func buildMeal(userID string, id primitive.ObjectID, req *mealRequest) *models.Meal {
	meal := models.NewMeal(userID, req.Name)
	meal.ID = id
	meal.Cuisine = strings.TrimSpace(req.Cuisine)
	meal.PriceRange = req.PriceRange
	meal.Tags = req.Tags
	meal.IsFavorite = req.IsFavorite
	meal.Notes = req.Notes
	return meal
}

func buildRestaurant(userID string, id primitive.ObjectID, req *restaurantRequest) *models.Restaurant {
	restaurant := models.NewRestaurant(userID, req.Name)
	restaurant.ID = id
	restaurant.Cuisine = strings.TrimSpace(req.Cuisine)
	restaurant.PriceRange = req.PriceRange
	restaurant.Rating = req.Rating
	restaurant.Address = req.Address
	restaurant.Website = req.Website
	restaurant.Tags = req.Tags
	restaurant.IsFavorite = req.IsFavorite
	restaurant.Notes = req.Notes
	return restaurant
}

// catalogHandler serves CRUD for one catalog. R is the request body type.
type catalogHandler[T any, R any] struct {
	store ItemStore[T]
	kind  string
	build func(userID string, id primitive.ObjectID, req *R) *T
	log   *zap.Logger
}

func (h *catalogHandler[T, R]) register(r gin.IRouter, path string) {
	group := r.Group(path)
	group.GET("", h.list)
	group.POST("", h.create)
	group.GET("/:id", h.get)
	group.PUT("/:id", h.update)
	group.PATCH("/:id/favorite", h.setFavorite)
	group.DELETE("/:id", h.delete)
}

func (h *catalogHandler[T, R]) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fail(c, http.StatusNotFound, h.kind+" not found")
	case errors.Is(err, storage.ErrDuplicate):
		fail(c, http.StatusConflict, "A "+h.kind+" with this name already exists")
	default:
		_ = c.Error(err)
		h.log.Error("Catalog operation failed",
			zap.String("kind", h.kind),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to process "+h.kind)
	}
}

func (h *catalogHandler[T, R]) list(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	q.Filter.Tags = splitTags(q.Filter.Tags)
	page, limit := normalizePage(pageQuery{Page: q.Page, Limit: q.Limit})

	items, err := h.store.List(c.Request.Context(), currentUser(c), q.Filter)
	if err != nil {
		h.storeError(c, err)
		return
	}

	total := int64(len(items))
	start := (page - 1) * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	okPage(c, items[start:end], NewPagination(page, limit, total))
}

func (h *catalogHandler[T, R]) create(c *gin.Context) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item := h.build(currentUser(c), primitive.NilObjectID, &req)
	if err := h.store.Create(c.Request.Context(), item); err != nil {
		h.storeError(c, err)
		return
	}
	created(c, item)
}

func (h *catalogHandler[T, R]) get(c *gin.Context) {
	item, err := h.store.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, item)
}

func (h *catalogHandler[T, R]) update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.storeError(c, storage.ErrNotFound)
		return
	}

	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.store.Update(c.Request.Context(), h.build(currentUser(c), id, &req))
	if err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, item)
}

func (h *catalogHandler[T, R]) setFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.store.SetFavorite(c.Request.Context(), currentUser(c), c.Param("id"), *req.IsFavorite)
	if err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, item)
}

func (h *catalogHandler[T, R]) delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.storeError(c, err)
		return
	}
	okWithMessage(c, nil, h.kind+" deleted")
}
