package selection

import (
	"context"
	"sort"
	"strings"

	"github.com/bradykim7/mealroulette/internal/history"
	"github.com/bradykim7/mealroulette/internal/models"
	"go.uber.org/zap"
)

const personalizationWindowDays = 30

// GetPersonalizedSuggestions favors the cuisine the user picked most over the
// last 30 days, then tops up with unrestricted diverse suggestions.
func (s *Service) GetPersonalizedSuggestions(ctx context.Context, userID string, limit int) ([]*models.Suggestion, error) {
	limit = clampCount(limit)
	opts := DefaultOptions()
	seen := newExclusionSet()

	cuisine, err := s.topCuisine(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []*models.Suggestion
	if cuisine != "" {
		preferred := opts
		preferred.Filters.Cuisine = cuisine
		out, err = s.diverse(ctx, userID, limit, preferred, seen)
		if err != nil {
			return nil, err
		}
	}

	if len(out) < limit {
		more, err := s.diverse(ctx, userID, limit-len(out), opts, seen)
		if err != nil {
			return nil, err
		}
		out = append(out, more...)
	}

	s.log.Debug("Personalized suggestions generated",
		zap.String("user_id", userID),
		zap.String("cuisine", cuisine),
		zap.Int("returned", len(out)))
	return out, nil
}

// topCuisine returns the cuisine carried by the user's most picked items.
// Ties go to the cuisine whose best item ranks higher.
func (s *Service) topCuisine(ctx context.Context, userID string) (string, error) {
	entries, err := s.history.ListSince(ctx, userID, history.Since(s.now(), personalizationWindowDays))
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}

	cuisineOf := make(map[string]string)
	for _, itemType := range models.ItemTypes {
		items, err := s.candidates(ctx, userID, itemType, models.Filter{})
		if err != nil {
			return "", err
		}
		for _, item := range items {
			if c := cuisineFor(item); c != "" {
				cuisineOf[models.ItemKey(itemType, item.ItemID())] = c
			}
		}
	}

	type tally struct {
		name  string
		count int
		rank  int
	}
	tallies := make(map[string]*tally)
	for rank, freq := range history.MostSelected(entries, 0) {
		c, ok := cuisineOf[freq.Key()]
		if !ok {
			continue
		}
		t, ok := tallies[strings.ToLower(c)]
		if !ok {
			t = &tally{name: c, rank: rank}
			tallies[strings.ToLower(c)] = t
		}
		t.count += freq.Count
	}
	if len(tallies) == 0 {
		return "", nil
	}

	ranked := make([]*tally, 0, len(tallies))
	for _, t := range tallies {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].rank < ranked[j].rank
	})
	return ranked[0].name, nil
}

func cuisineFor(item models.Item) string {
	switch v := item.(type) {
	case *models.Meal:
		return v.Cuisine
	case *models.Restaurant:
		return v.Cuisine
	}
	return ""
}
