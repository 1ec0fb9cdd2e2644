package selection

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bradykim7/mealroulette/internal/models"
)

type fakeCatalog struct {
	meals       []*models.Meal
	restaurants []*models.Restaurant
	err         error
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matches(f models.Filter, userID, owner, cuisine string, price int, fav bool, tags []string) bool {
	if owner != userID {
		return false
	}
	if f.Cuisine != "" && !strings.EqualFold(f.Cuisine, cuisine) {
		return false
	}
	if f.PriceRange != 0 && f.PriceRange != price {
		return false
	}
	if f.FavoritesOnly && !fav {
		return false
	}
	return hasAllTags(tags, f.Tags)
}

func (c *fakeCatalog) ListMeals(_ context.Context, userID string, f models.Filter) ([]*models.Meal, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []*models.Meal
	for _, m := range c.meals {
		if matches(f, userID, m.UserID, m.Cuisine, m.PriceRange, m.IsFavorite, m.Tags) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *fakeCatalog) ListRestaurants(_ context.Context, userID string, f models.Filter) ([]*models.Restaurant, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []*models.Restaurant
	for _, r := range c.restaurants {
		if !matches(f, userID, r.UserID, r.Cuisine, r.PriceRange, r.IsFavorite, r.Tags) {
			continue
		}
		if f.MinRating > 0 && (r.Rating == nil || *r.Rating < f.MinRating) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeHistory struct {
	mu      sync.Mutex
	entries []models.SelectionHistoryEntry
	err     error
}

func (h *fakeHistory) Record(_ context.Context, e *models.SelectionHistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, *e)
	return nil
}

func (h *fakeHistory) ListSince(_ context.Context, userID string, since time.Time) ([]models.SelectionHistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return nil, h.err
	}
	var out []models.SelectionHistoryEntry
	for _, e := range h.entries {
		if e.UserID == userID && !e.SelectedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (h *fakeHistory) List(_ context.Context, userID string, page, limit int) ([]models.SelectionHistoryEntry, int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var mine []models.SelectionHistoryEntry
	for _, e := range h.entries {
		if e.UserID == userID {
			mine = append(mine, e)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].SelectedAt.After(mine[j].SelectedAt) })

	start := (page - 1) * limit
	if start >= len(mine) {
		return nil, int64(len(mine)), nil
	}
	end := start + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[start:end], int64(len(mine)), nil
}

func (h *fakeHistory) DeleteByUser(_ context.Context, userID string) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := h.entries[:0]
	var deleted int64
	for _, e := range h.entries {
		if e.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	h.entries = kept
	return deleted, nil
}

func (h *fakeHistory) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
