package selection

import (
	"context"

	"github.com/bradykim7/mealroulette/internal/models"
	"go.uber.org/zap"
)

// GetTimeBasedSuggestion narrows both pools to items tagged for the current
// meal time. When none match it falls back to an untagged suggestion.
func (s *Service) GetTimeBasedSuggestion(ctx context.Context, userID string, opts Options) (*models.Suggestion, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	mealTime := models.MealTimeAt(s.now())
	tagged := opts
	tagged.Filters = opts.Filters.WithTag(mealTime.Tag())

	suggestion, err := s.dispatch(ctx, userID, tagged, newExclusionSet())
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		s.log.Debug("No items tagged for meal time, falling back",
			zap.String("user_id", userID),
			zap.String("meal_time", string(mealTime)))

		suggestion, err = s.dispatch(ctx, userID, opts, newExclusionSet())
		if err != nil || suggestion == nil {
			return nil, err
		}
	}

	suggestion.MealTime = mealTime
	return suggestion, nil
}
