package api

import (
	"context"
	"strings"
	"sync"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/bradykim7/mealroulette/internal/selection"
	"github.com/bradykim7/mealroulette/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSuggester struct {
	suggestion *models.Suggestion
	list       []*models.Suggestion
	history    []models.SelectionHistoryEntry
	total      int64
	stats      *selection.Stats
	err        error

	lastOpts  selection.Options
	lastCount int
	lastPage  int
	lastLimit int
	lastDays  int
	picks     int
	cleared   bool
}

func (f *fakeSuggester) GetRandomSuggestion(_ context.Context, _ string, opts selection.Options) (*models.Suggestion, error) {
	f.lastOpts = opts
	return f.suggestion, f.err
}

func (f *fakeSuggester) PickRandom(_ context.Context, _ string, opts selection.Options) (*models.Suggestion, error) {
	f.lastOpts = opts
	if f.err == nil && f.suggestion != nil {
		f.picks++
	}
	return f.suggestion, f.err
}

func (f *fakeSuggester) GetTimeBasedSuggestion(_ context.Context, _ string, opts selection.Options) (*models.Suggestion, error) {
	f.lastOpts = opts
	return f.suggestion, f.err
}

func (f *fakeSuggester) GetDiverseSuggestions(_ context.Context, _ string, count int, opts selection.Options) ([]*models.Suggestion, error) {
	f.lastOpts = opts
	f.lastCount = count
	return f.list, f.err
}

func (f *fakeSuggester) GetPersonalizedSuggestions(_ context.Context, _ string, limit int) ([]*models.Suggestion, error) {
	f.lastCount = limit
	return f.list, f.err
}

func (f *fakeSuggester) History(_ context.Context, _ string, page, limit int) ([]models.SelectionHistoryEntry, int64, error) {
	f.lastPage, f.lastLimit = page, limit
	return f.history, f.total, f.err
}

func (f *fakeSuggester) Stats(_ context.Context, _ string, days int) (*selection.Stats, error) {
	f.lastDays = days
	return f.stats, f.err
}

func (f *fakeSuggester) ClearHistory(_ context.Context, _ string) (int64, error) {
	f.cleared = true
	return int64(len(f.history)), f.err
}

// fakeMealStore keeps meals in memory with the same ownership rules as storage
type fakeMealStore struct {
	mu    sync.Mutex
	meals []*models.Meal
}

func (s *fakeMealStore) Create(_ context.Context, meal *models.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.meals {
		if m.UserID == meal.UserID && strings.EqualFold(m.Name, meal.Name) {
			return storage.ErrDuplicate
		}
	}
	meal.ID = primitive.NewObjectID()
	meal.Tags = models.NormalizeTags(meal.Tags)
	s.meals = append(s.meals, meal)
	return nil
}

func (s *fakeMealStore) find(userID, id string) *models.Meal {
	for _, m := range s.meals {
		if m.UserID == userID && m.ID.Hex() == id {
			return m
		}
	}
	return nil
}

func (s *fakeMealStore) Get(_ context.Context, userID, id string) (*models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.find(userID, id); m != nil {
		return m, nil
	}
	return nil, storage.ErrNotFound
}

func (s *fakeMealStore) List(_ context.Context, userID string, f models.Filter) ([]*models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Meal
	for _, m := range s.meals {
		if m.UserID != userID {
			continue
		}
		if f.FavoritesOnly && !m.IsFavorite {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *fakeMealStore) Update(_ context.Context, meal *models.Meal) (*models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.find(meal.UserID, meal.ID.Hex())
	if existing == nil {
		return nil, storage.ErrNotFound
	}
	meal.CreatedAt = existing.CreatedAt
	*existing = *meal
	return existing, nil
}

func (s *fakeMealStore) SetFavorite(_ context.Context, userID, id string, favorite bool) (*models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.find(userID, id)
	if m == nil {
		return nil, storage.ErrNotFound
	}
	m.IsFavorite = favorite
	return m, nil
}

func (s *fakeMealStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.meals {
		if m.UserID == userID && m.ID.Hex() == id {
			s.meals = append(s.meals[:i], s.meals[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// fakeRestaurantStore only accepts creates
type fakeRestaurantStore struct {
	created []*models.Restaurant
}

func (s *fakeRestaurantStore) Create(_ context.Context, r *models.Restaurant) error {
	r.ID = primitive.NewObjectID()
	s.created = append(s.created, r)
	return nil
}

func (s *fakeRestaurantStore) Get(context.Context, string, string) (*models.Restaurant, error) {
	return nil, storage.ErrNotFound
}

func (s *fakeRestaurantStore) List(context.Context, string, models.Filter) ([]*models.Restaurant, error) {
	return s.created, nil
}

func (s *fakeRestaurantStore) Update(context.Context, *models.Restaurant) (*models.Restaurant, error) {
	return nil, storage.ErrNotFound
}

func (s *fakeRestaurantStore) SetFavorite(context.Context, string, string, bool) (*models.Restaurant, error) {
	return nil, storage.ErrNotFound
}

func (s *fakeRestaurantStore) Delete(context.Context, string, string) error {
	return storage.ErrNotFound
}
