package selection

import (
	"errors"
	"fmt"

	"github.com/bradykim7/mealroulette/internal/models"
)

const (
	// DefaultExcludeRecentDays is the recency window used when callers send none
	DefaultExcludeRecentDays = 7

	// MaxExcludeRecentDays bounds the recency window
	MaxExcludeRecentDays = 365

	// MaxSuggestions bounds diverse and personalized result sizes
	MaxSuggestions = 20
)

// ErrInvalidOption is returned for malformed suggestion options
var ErrInvalidOption = errors.New("invalid suggestion option")

// Options controls a suggestion request. They pass unchanged to both pools.
type Options struct {
	// Type pins the pool. Empty means either.
	Type              models.ItemType
	ExcludeRecentDays int
	WeightFavorites   bool
	Filters           models.Filter
}

// DefaultOptions returns options with a 7 day recency window and favorites weighted
func DefaultOptions() Options {
	return Options{
		ExcludeRecentDays: DefaultExcludeRecentDays,
		WeightFavorites:   true,
	}
}

// Validate rejects options the engine cannot act on
func (o Options) Validate() error {
	if o.Type != "" && !o.Type.Valid() {
		return fmt.Errorf("%w: type %q", ErrInvalidOption, o.Type)
	}
	if o.ExcludeRecentDays < 0 || o.ExcludeRecentDays > MaxExcludeRecentDays {
		return fmt.Errorf("%w: exclude_recent_days must be between 0 and %d", ErrInvalidOption, MaxExcludeRecentDays)
	}
	return nil
}

func clampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxSuggestions {
		return MaxSuggestions
	}
	return n
}
