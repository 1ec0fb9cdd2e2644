package selection

import (
	"context"
	"fmt"
	"time"

	"github.com/bradykim7/mealroulette/internal/history"
	"github.com/bradykim7/mealroulette/internal/models"
	"go.uber.org/zap"
)

// CandidateStore lists the catalog items a user owns
type CandidateStore interface {
	ListMeals(ctx context.Context, userID string, filter models.Filter) ([]*models.Meal, error)
	ListRestaurants(ctx context.Context, userID string, filter models.Filter) ([]*models.Restaurant, error)
}

// HistoryStore persists confirmed picks
type HistoryStore interface {
	Record(ctx context.Context, entry *models.SelectionHistoryEntry) error
	ListSince(ctx context.Context, userID string, since time.Time) ([]models.SelectionHistoryEntry, error)
	List(ctx context.Context, userID string, page, limit int) ([]models.SelectionHistoryEntry, int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// Service answers "what should I eat" for one user at a time
type Service struct {
	engine  *Engine
	catalog CandidateStore
	history HistoryStore
	log     *zap.Logger
	now     func() time.Time
}

// NewService creates a selection service
func NewService(engine *Engine, catalog CandidateStore, store HistoryStore, log *zap.Logger) *Service {
	return &Service{
		engine:  engine,
		catalog: catalog,
		history: store,
		log:     log.Named("selection"),
		now:     time.Now,
	}
}

// SetClock replaces the wall clock used for windows and time buckets
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// GetRandomSuggestion previews one suggestion without touching history.
// A nil suggestion with a nil error means no candidate survived.
func (s *Service) GetRandomSuggestion(ctx context.Context, userID string, opts Options) (*models.Suggestion, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, userID, opts, newExclusionSet())
}

// PickRandom selects a suggestion and records it as a confirmed pick
func (s *Service) PickRandom(ctx context.Context, userID string, opts Options) (*models.Suggestion, error) {
	suggestion, err := s.GetRandomSuggestion(ctx, userID, opts)
	if err != nil || suggestion == nil {
		return suggestion, err
	}

	if err := s.RecordSelection(ctx, userID, suggestion.Item()); err != nil {
		return nil, err
	}
	return suggestion, nil
}

// RecordSelection appends a history entry for item
func (s *Service) RecordSelection(ctx context.Context, userID string, item models.Item) error {
	entry := models.NewSelectionHistoryEntry(userID, item, s.now())
	if err := s.history.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record selection: %w", err)
	}

	s.log.Info("Selection recorded",
		zap.String("user_id", userID),
		zap.String("item_type", string(entry.ItemType)),
		zap.String("item_id", entry.ItemID))
	return nil
}

// poolOrder decides which catalogs to try and in what order. An unpinned
// request flips a fair coin for the first pool and falls back to the other.
func (s *Service) poolOrder(pinned models.ItemType) []models.ItemType {
	if pinned != "" {
		return []models.ItemType{pinned}
	}
	first := models.ItemTypeMeal
	if s.engine.Coin() {
		first = models.ItemTypeRestaurant
	}
	return []models.ItemType{first, first.Other()}
}

func (s *Service) dispatch(ctx context.Context, userID string, opts Options, seen exclusionSet) (*models.Suggestion, error) {
	var recent []models.SelectionHistoryEntry
	since := history.Since(s.now(), opts.ExcludeRecentDays)
	if opts.ExcludeRecentDays > 0 {
		entries, err := s.history.ListSince(ctx, userID, since)
		if err != nil {
			return nil, fmt.Errorf("failed to load recent selections: %w", err)
		}
		recent = entries
	}

	for _, itemType := range s.poolOrder(opts.Type) {
		candidates, err := s.candidates(ctx, userID, itemType, opts.Filters)
		if err != nil {
			return nil, err
		}

		excluded := history.ExcludedIDs(recent, itemType, since)
		for id := range seen[itemType] {
			excluded[id] = struct{}{}
		}

		if item := s.engine.SelectRandom(candidates, excluded, opts.WeightFavorites); item != nil {
			s.log.Debug("Suggestion selected",
				zap.String("user_id", userID),
				zap.String("item_type", string(itemType)),
				zap.Int("candidates", len(candidates)),
				zap.Int("excluded", len(excluded)))
			return models.NewSuggestion(item), nil
		}
	}
	return nil, nil
}

func (s *Service) candidates(ctx context.Context, userID string, itemType models.ItemType, filter models.Filter) ([]models.Item, error) {
	switch itemType {
	case models.ItemTypeMeal:
		meals, err := s.catalog.ListMeals(ctx, userID, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list meals: %w", err)
		}
		items := make([]models.Item, len(meals))
		for i, m := range meals {
			items[i] = m
		}
		return items, nil
	case models.ItemTypeRestaurant:
		restaurants, err := s.catalog.ListRestaurants(ctx, userID, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list restaurants: %w", err)
		}
		items := make([]models.Item, len(restaurants))
		for i, r := range restaurants {
			items[i] = r
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: type %q", ErrInvalidOption, itemType)
}
