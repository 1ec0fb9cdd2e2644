package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SelectionHistoryEntry records one confirmed pick. Entries are never updated.
type SelectionHistoryEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	ItemType   ItemType           `bson:"item_type" json:"item_type"`
	ItemID     string             `bson:"item_id" json:"item_id"`
	ItemName   string             `bson:"item_name,omitempty" json:"item_name,omitempty"`
	SelectedAt time.Time          `bson:"selected_at" json:"selected_at"`
}

// NewSelectionHistoryEntry creates an entry for item picked by userID at t
func NewSelectionHistoryEntry(userID string, item Item, t time.Time) *SelectionHistoryEntry {
	return &SelectionHistoryEntry{
		UserID:     userID,
		ItemType:   item.ItemType(),
		ItemID:     item.ItemID(),
		ItemName:   item.ItemName(),
		SelectedAt: t,
	}
}

// Key identifies the selected item across both catalogs
func (e *SelectionHistoryEntry) Key() string {
	return ItemKey(e.ItemType, e.ItemID)
}

// Suggestion is an ephemeral pick. It only becomes history when confirmed.
type Suggestion struct {
	Type       ItemType    `json:"type"`
	Meal       *Meal       `json:"meal,omitempty"`
	Restaurant *Restaurant `json:"restaurant,omitempty"`
	MealTime   MealTime    `json:"meal_time,omitempty"`
}

// NewSuggestion wraps a selected item
func NewSuggestion(item Item) *Suggestion {
	switch v := item.(type) {
	case *Meal:
		return &Suggestion{Type: ItemTypeMeal, Meal: v}
	case *Restaurant:
		return &Suggestion{Type: ItemTypeRestaurant, Restaurant: v}
	}
	return nil
}

// Item returns the wrapped meal or restaurant
func (s *Suggestion) Item() Item {
	if s.Meal != nil {
		return s.Meal
	}
	if s.Restaurant != nil {
		return s.Restaurant
	}
	return nil
}

// Key identifies the suggested item across both catalogs
func (s *Suggestion) Key() string {
	return ItemKey(s.Type, s.Item().ItemID())
}
