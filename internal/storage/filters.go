package storage

import (
	"regexp"
	"strings"

	"github.com/bradykim7/mealroulette/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// catalogFilter translates a listing filter into an owner-scoped query.
// Rating constraints only apply to collections that store a rating.
func catalogFilter(userID string, f models.Filter, hasRating bool) bson.M {
	filter := bson.M{"user_id": userID}

	if cuisine := strings.TrimSpace(f.Cuisine); cuisine != "" {
		filter["cuisine"] = bson.M{
			"$regex":   "^" + regexp.QuoteMeta(cuisine) + "$",
			"$options": "i",
		}
	}
	if f.PriceRange > 0 {
		filter["price_range"] = f.PriceRange
	}
	if hasRating && f.MinRating > 0 {
		// documents without a rating never match
		filter["rating"] = bson.M{"$gte": f.MinRating}
	}
	if f.FavoritesOnly {
		filter["is_favorite"] = true
	}
	if tags := models.NormalizeTags(f.Tags); len(tags) > 0 {
		filter["tags"] = bson.M{"$all": tags}
	}

	return filter
}
