package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/bradykim7/mealroulette/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const listingPage = `<html><body>
<ul>
  <li class="restaurant">
    <a href="/places/sushi-bar"><span class="name">Sushi   Bar</span></a>
    <span class="cuisine">Japanese</span>
    <span class="rating">4.5 / 5</span>
    <span class="tag">Lunch</span><span class="tag">Raw</span>
  </li>
  <li class="restaurant">
    <span class="name">Taco Stand</span>
    <span class="rating">unrated</span>
  </li>
  <li class="restaurant">
    <span class="cuisine">Nameless</span>
  </li>
  <li class="restaurant">
    <a href="https://pho.example.com">
    <span class="name">Pho House</span></a>
    <span class="rating">9.8</span>
  </li>
</ul>
</body></html>`

var testSelectors = Selectors{
	Item:    "li.restaurant",
	Name:    ".name",
	Cuisine: ".cuisine",
	Rating:  ".rating",
	Tags:    ".tag",
}

func TestParseListings(t *testing.T) {
	listings, err := ParseListings(strings.NewReader(listingPage), "https://guide.example.com/list", testSelectors)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	sushi := listings[0]
	assert.Equal(t, "Sushi Bar", sushi.Name)
	assert.Equal(t, "Japanese", sushi.Cuisine)
	require.NotNil(t, sushi.Rating)
	assert.Equal(t, 4.5, *sushi.Rating)
	assert.Equal(t, "https://guide.example.com/places/sushi-bar", sushi.Website)
	assert.Equal(t, []string{"Lunch", "Raw"}, sushi.Tags)

	taco := listings[1]
	assert.Equal(t, "Taco Stand", taco.Name)
	assert.Nil(t, taco.Rating)
	assert.Empty(t, taco.Website)

	pho := listings[2]
	assert.Nil(t, pho.Rating, "ratings above 5 are dropped")
	assert.Equal(t, "https://pho.example.com", pho.Website)
}

func TestParseListingsRequiresItemSelector(t *testing.T) {
	_, err := ParseListings(strings.NewReader(listingPage), "", Selectors{Name: ".name"})
	assert.Error(t, err)
}

func newTestFetcher() *Fetcher {
	f := NewFetcher(zap.NewNop())
	f.RetryWait = time.Millisecond
	return f
}

func TestFetchURLRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	content, err := newTestFetcher().FetchURL(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(content))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchURLGivesUp(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestFetcher().FetchURL(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code 404")
	assert.Equal(t, int32(maxRetries), calls.Load())
}

func TestFetchURLStopsOnCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := newTestFetcher()
	f.RetryWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := f.FetchURL(ctx, server.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

// memoryStore is an in-memory catalog for both item kinds
type memoryStore struct {
	mu          sync.Mutex
	meals       []*models.Meal
	restaurants []*models.Restaurant
	failName    string
}

func (s *memoryStore) mealStore() MealStore             { return mealAdapter{s} }
func (s *memoryStore) restaurantStore() RestaurantStore { return restaurantAdapter{s} }

type mealAdapter struct{ s *memoryStore }

func (a mealAdapter) List(_ context.Context, userID string, _ models.Filter) ([]*models.Meal, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	var out []*models.Meal
	for _, m := range a.s.meals {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (a mealAdapter) Create(_ context.Context, m *models.Meal) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	m.ID = primitive.NewObjectID()
	a.s.meals = append(a.s.meals, m)
	return nil
}

type restaurantAdapter struct{ s *memoryStore }

func (a restaurantAdapter) List(_ context.Context, userID string, _ models.Filter) ([]*models.Restaurant, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	var out []*models.Restaurant
	for _, r := range a.s.restaurants {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (a restaurantAdapter) Create(_ context.Context, r *models.Restaurant) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if r.Name == a.s.failName {
		return errors.New("write failed")
	}
	for _, existing := range a.s.restaurants {
		if existing.UserID == r.UserID && strings.EqualFold(existing.Name, r.Name) {
			return storage.ErrDuplicate
		}
	}
	r.ID = primitive.NewObjectID()
	a.s.restaurants = append(a.s.restaurants, r)
	return nil
}

type staticSource struct {
	name     string
	listings []Listing
	err      error
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Listings(context.Context) ([]Listing, error) { return s.listings, s.err }

func TestRunDeduplicatesByName(t *testing.T) {
	store := &memoryStore{}
	require.NoError(t, store.restaurantStore().Create(context.Background(), models.NewRestaurant("u1", "Sushi Bar")))
	imp := New(store.mealStore(), store.restaurantStore(), zap.NewNop())

	result, err := imp.Run(context.Background(), "u1",
		staticSource{name: "a", listings: []Listing{{Name: "SUSHI BAR"}, {Name: "Taco Stand", Tags: []string{"Cheap"}}}},
		staticSource{name: "b", listings: []Listing{{Name: "taco stand"}, {Name: "Pho House"}}},
		staticSource{name: "broken", err: errors.New("timeout")},
	)
	require.NoError(t, err)
	assert.Equal(t, Result{Added: 2, Skipped: 2}, *result)

	names := map[string]bool{}
	for _, r := range store.restaurants {
		names[r.Name] = true
		assert.Equal(t, "u1", r.UserID)
	}
	assert.True(t, names["Pho House"])
	assert.Len(t, store.restaurants, 3)
}

func TestRunCountsFailures(t *testing.T) {
	store := &memoryStore{failName: "Bad"}
	imp := New(store.mealStore(), store.restaurantStore(), zap.NewNop())

	result, err := imp.Run(context.Background(), "u1",
		staticSource{name: "a", listings: []Listing{{Name: "Bad"}, {Name: "Good"}}})
	require.NoError(t, err)
	assert.Equal(t, Result{Added: 1, Failed: 1}, *result)
}

func TestRunWithHTMLSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingPage)
	}))
	defer server.Close()

	store := &memoryStore{}
	imp := New(store.mealStore(), store.restaurantStore(), zap.NewNop())
	source := NewHTMLSource(server.URL, testSelectors, newTestFetcher(), zap.NewNop())

	result, err := imp.Run(context.Background(), "u1", source)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Added)
	assert.Equal(t, server.URL, source.Name())
}

func TestExportImportMovesCatalogBetweenUsers(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	imp := New(store.mealStore(), store.restaurantStore(), zap.NewNop())

	meal := models.NewMeal("u1", "Bibimbap")
	meal.Tags = []string{"korean"}
	require.NoError(t, store.mealStore().Create(ctx, meal))
	rating := 4.0
	restaurant := models.NewRestaurant("u1", "Sushi Bar")
	restaurant.Rating = &rating
	require.NoError(t, store.restaurantStore().Create(ctx, restaurant))
	require.NoError(t, store.mealStore().Create(ctx, models.NewMeal("u2", "bibimbap")))

	var buf bytes.Buffer
	require.NoError(t, imp.Export(ctx, "u1", &buf))
	assert.Contains(t, buf.String(), `"version": 1`)

	result, err := imp.ImportJSON(ctx, "u2", &buf)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 1}, result.Meals)
	assert.Equal(t, Result{Added: 1}, result.Restaurants)

	imported, err := store.restaurantStore().List(ctx, "u2", models.Filter{})
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "u2", imported[0].UserID)
	assert.NotEqual(t, restaurant.ID, imported[0].ID)
	require.NotNil(t, imported[0].Rating)
	assert.Equal(t, 4.0, *imported[0].Rating)
}

func TestImportJSONRejectsGarbage(t *testing.T) {
	imp := New((&memoryStore{}).mealStore(), (&memoryStore{}).restaurantStore(), zap.NewNop())

	_, err := imp.ImportJSON(context.Background(), "u1", strings.NewReader("{not json"))
	assert.Error(t, err)

	_, err = imp.ImportJSON(context.Background(), "u1", strings.NewReader(`{"version": 99}`))
	assert.ErrorContains(t, err, "unsupported export version")
}
