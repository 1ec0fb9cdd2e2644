package selection

import (
	"context"

	"github.com/bradykim7/mealroulette/internal/models"
	"go.uber.org/zap"
)

// exclusionSet holds the ids already suggested within one request, per pool.
// It is never persisted.
type exclusionSet map[models.ItemType]map[string]struct{}

func newExclusionSet() exclusionSet {
	return exclusionSet{
		models.ItemTypeMeal:       {},
		models.ItemTypeRestaurant: {},
	}
}

func (e exclusionSet) add(s *models.Suggestion) {
	e[s.Type][s.Item().ItemID()] = struct{}{}
}

func (e exclusionSet) has(s *models.Suggestion) bool {
	_, ok := e[s.Type][s.Item().ItemID()]
	return ok
}

// GetDiverseSuggestions returns up to count suggestions with no repeated item
func (s *Service) GetDiverseSuggestions(ctx context.Context, userID string, count int, opts Options) ([]*models.Suggestion, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return s.diverse(ctx, userID, clampCount(count), opts, newExclusionSet())
}

func (s *Service) diverse(ctx context.Context, userID string, count int, opts Options, seen exclusionSet) ([]*models.Suggestion, error) {
	maxIterations := count * 5
	if maxIterations < 10 {
		maxIterations = 10
	}

	var (
		out    []*models.Suggestion
		misses int
	)
	for i := 0; i < maxIterations && len(out) < count; i++ {
		suggestion, err := s.dispatch(ctx, userID, opts, seen)
		if err != nil {
			return nil, err
		}
		if suggestion == nil {
			misses++
			if misses >= 2 {
				break
			}
			continue
		}
		misses = 0

		if seen.has(suggestion) {
			continue
		}
		seen.add(suggestion)
		out = append(out, suggestion)
	}

	s.log.Debug("Diverse suggestions generated",
		zap.String("user_id", userID),
		zap.Int("requested", count),
		zap.Int("returned", len(out)))
	return out, nil
}
