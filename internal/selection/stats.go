package selection

import (
	"context"
	"fmt"

	"github.com/bradykim7/mealroulette/internal/history"
	"github.com/bradykim7/mealroulette/internal/models"
	"go.uber.org/zap"
)

const (
	defaultStatsDays = 30
	topItemsLimit    = 10
)

// Stats summarizes a user's picks over a trailing window
type Stats struct {
	Days         int                     `json:"days"`
	Total        int                     `json:"total"`
	ByType       map[models.ItemType]int `json:"by_type"`
	Daily        []history.DayCount      `json:"daily"`
	MostSelected []history.ItemFrequency `json:"most_selected"`
}

// Stats aggregates the last days of history. Out of range windows fall back to 30 days.
func (s *Service) Stats(ctx context.Context, userID string, days int) (*Stats, error) {
	if days <= 0 || days > MaxExcludeRecentDays {
		days = defaultStatsDays
	}

	now := s.now()
	entries, err := s.history.ListSince(ctx, userID, history.Since(now, days))
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	return &Stats{
		Days:         days,
		Total:        len(entries),
		ByType:       history.CountByType(entries),
		Daily:        history.DailyCounts(entries, days, now),
		MostSelected: history.MostSelected(entries, topItemsLimit),
	}, nil
}

// WasRecentlySelected reports whether the item was picked within the last days
func (s *Service) WasRecentlySelected(ctx context.Context, userID string, itemType models.ItemType, itemID string, days int) (bool, error) {
	if days <= 0 {
		return false, nil
	}
	now := s.now()
	entries, err := s.history.ListSince(ctx, userID, history.Since(now, days))
	if err != nil {
		return false, fmt.Errorf("failed to load history: %w", err)
	}
	return history.WasSelectedWithin(entries, itemType, itemID, days, now), nil
}

// History returns one page of the user's picks, newest first, and the total count
func (s *Service) History(ctx context.Context, userID string, page, limit int) ([]models.SelectionHistoryEntry, int64, error) {
	entries, total, err := s.history.List(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, total, nil
}

// ClearHistory deletes every pick of the user. Subsequent suggestions see no exclusions.
func (s *Service) ClearHistory(ctx context.Context, userID string) (int64, error) {
	deleted, err := s.history.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}

	s.log.Info("History cleared",
		zap.String("user_id", userID),
		zap.Int64("deleted", deleted))
	return deleted, nil
}
