package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemType distinguishes the two catalogs a suggestion can come from
type ItemType string

const (
	// ItemTypeMeal is a home-cooked or ordered dish
	ItemTypeMeal ItemType = "meal"

	// ItemTypeRestaurant is a place to eat out
	ItemTypeRestaurant ItemType = "restaurant"
)

// ItemTypes lists every known item type in a stable order
var ItemTypes = []ItemType{ItemTypeMeal, ItemTypeRestaurant}

// Valid reports whether t is a known item type
func (t ItemType) Valid() bool {
	return t == ItemTypeMeal || t == ItemTypeRestaurant
}

// Other returns the opposite catalog
func (t ItemType) Other() ItemType {
	if t == ItemTypeMeal {
		return ItemTypeRestaurant
	}
	return ItemTypeMeal
}

// ParseItemType parses a user supplied type. An empty string yields an empty type.
func ParseItemType(s string) (ItemType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	t := ItemType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown item type %q", s)
	}
	return t, nil
}

// Item is the view of a meal or restaurant the selection engine ranks on
type Item interface {
	ItemID() string
	ItemType() ItemType
	ItemName() string
	Favorite() bool
	// RankScore is the secondary ranking key; higher sorts first.
	RankScore() float64
}

// Meal is a dish in a user's catalog
type Meal struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Name       string             `bson:"name" json:"name"`
	Cuisine    string             `bson:"cuisine,omitempty" json:"cuisine,omitempty"`
	PriceRange int                `bson:"price_range,omitempty" json:"price_range,omitempty"`
	Tags       []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	IsFavorite bool               `bson:"is_favorite" json:"is_favorite"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// NewMeal creates a meal owned by userID
func NewMeal(userID, name string) *Meal {
	now := time.Now()
	return &Meal{
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *Meal) ItemID() string     { return m.ID.Hex() }
func (m *Meal) ItemType() ItemType { return ItemTypeMeal }
func (m *Meal) ItemName() string   { return m.Name }
func (m *Meal) Favorite() bool     { return m.IsFavorite }

// RankScore is always zero: meals have no secondary key.
func (m *Meal) RankScore() float64 { return 0 }

// Restaurant is a place in a user's catalog
type Restaurant struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Name       string             `bson:"name" json:"name"`
	Cuisine    string             `bson:"cuisine,omitempty" json:"cuisine,omitempty"`
	PriceRange int                `bson:"price_range,omitempty" json:"price_range,omitempty"`
	Rating     *float64           `bson:"rating,omitempty" json:"rating,omitempty"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	Website    string             `bson:"website,omitempty" json:"website,omitempty"`
	Tags       []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	IsFavorite bool               `bson:"is_favorite" json:"is_favorite"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// NewRestaurant creates a restaurant owned by userID
func NewRestaurant(userID, name string) *Restaurant {
	now := time.Now()
	return &Restaurant{
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *Restaurant) ItemID() string     { return r.ID.Hex() }
func (r *Restaurant) ItemType() ItemType { return ItemTypeRestaurant }
func (r *Restaurant) ItemName() string   { return r.Name }
func (r *Restaurant) Favorite() bool     { return r.IsFavorite }

// RankScore is the rating, with a missing rating counted as zero
func (r *Restaurant) RankScore() float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Cuisine       string   `form:"cuisine" json:"cuisine"`
	PriceRange    int      `form:"price_range" json:"price_range" binding:"omitempty,min=1,max=4"`
	MinRating     float64  `form:"min_rating" json:"min_rating" binding:"omitempty,min=0,max=5"`
	FavoritesOnly bool     `form:"favorites_only" json:"favorites_only"`
	Tags          []string `form:"tags" json:"tags"`
}

// WithTag returns a copy of f that additionally requires tag
func (f Filter) WithTag(tag string) Filter {
	tags := make([]string, 0, len(f.Tags)+1)
	tags = append(tags, f.Tags...)
	f.Tags = append(tags, tag)
	return f
}

// ItemKey identifies an item across both catalogs
func ItemKey(t ItemType, id string) string {
	return string(t) + ":" + id
}

// NormalizeTags lowercases, trims and de-duplicates tags, keeping first-seen order
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
