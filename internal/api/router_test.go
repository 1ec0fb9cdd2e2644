package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bradykim7/mealroulette/internal/auth"
	"github.com/bradykim7/mealroulette/internal/history"
	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/bradykim7/mealroulette/internal/selection"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Details    []FieldError    `json:"details"`
	Pagination *Pagination     `json:"pagination"`
}

type testAPI struct {
	router      *gin.Engine
	suggester   *fakeSuggester
	meals       *fakeMealStore
	restaurants *fakeRestaurantStore
	token       string
	healthErr   error
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	tokens := auth.NewService("test-secret", time.Hour)
	token, err := tokens.Issue("u1")
	require.NoError(t, err)

	a := &testAPI{
		suggester:   &fakeSuggester{},
		meals:       &fakeMealStore{},
		restaurants: &fakeRestaurantStore{},
		token:       token,
	}
	a.router = NewRouter(Dependencies{
		Suggestions:        a.suggester,
		Meals:              a.meals,
		Restaurants:        a.restaurants,
		Tokens:             tokens,
		Health:             func(context.Context) error { return a.healthErr },
		DefaultExcludeDays: 7,
		Log:                zap.NewNop(),
	})
	return a
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func testSuggestion(name string) *models.Suggestion {
	meal := models.NewMeal("u1", name)
	meal.ID = primitive.NewObjectID()
	return models.NewSuggestion(meal)
}

func TestHealthzIsPublic(t *testing.T) {
	a := newTestAPI(t)
	a.token = ""

	code, env := a.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	a.healthErr = errors.New("down")
	code, env = a.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, env.Success)
}

func TestRandomRequiresToken(t *testing.T) {
	a := newTestAPI(t)

	a.token = ""
	code, env := a.do(t, http.MethodGet, "/api/random/suggestion", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)

	a.token = "garbage"
	code, _ = a.do(t, http.MethodGet, "/api/random/suggestion", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSuggestionDefaults(t *testing.T) {
	a := newTestAPI(t)
	a.suggester.suggestion = testSuggestion("Bibimbap")

	code, env := a.do(t, http.MethodGet, "/api/random/suggestion", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var got models.Suggestion
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, models.ItemTypeMeal, got.Type)
	assert.Equal(t, "Bibimbap", got.Meal.Name)

	assert.Equal(t, models.ItemType(""), a.suggester.lastOpts.Type)
	assert.Equal(t, 7, a.suggester.lastOpts.ExcludeRecentDays)
	assert.True(t, a.suggester.lastOpts.WeightFavorites)
}

func TestSuggestionQueryOptions(t *testing.T) {
	a := newTestAPI(t)
	a.suggester.suggestion = testSuggestion("Bibimbap")

	path := "/api/random/suggestion?type=Restaurant&exclude_recent_days=0&weight_favorites=false" +
		"&cuisine=Korean&price_range=2&min_rating=3.5&favorites_only=true&tags=Spicy,lunch&tags=cheap"
	code, _ := a.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, code)

	opts := a.suggester.lastOpts
	assert.Equal(t, models.ItemTypeRestaurant, opts.Type)
	assert.Equal(t, 0, opts.ExcludeRecentDays)
	assert.False(t, opts.WeightFavorites)
	assert.Equal(t, "Korean", opts.Filters.Cuisine)
	assert.Equal(t, 2, opts.Filters.PriceRange)
	assert.Equal(t, 3.5, opts.Filters.MinRating)
	assert.True(t, opts.Filters.FavoritesOnly)
	assert.Equal(t, []string{"spicy", "lunch", "cheap"}, opts.Filters.Tags)
}

func TestSuggestionValidation(t *testing.T) {
	a := newTestAPI(t)
	a.suggester.suggestion = testSuggestion("Bibimbap")

	tests := []struct {
		query string
		field string
	}{
		{"type=dessert", "type"},
		{"exclude_recent_days=400", "exclude_recent_days"},
		{"exclude_recent_days=-1", "exclude_recent_days"},
		{"price_range=9", "price_range"},
		{"min_rating=7", "min_rating"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			code, env := a.do(t, http.MethodGet, "/api/random/suggestion?"+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
			require.Len(t, env.Details, 1)
			assert.Equal(t, tt.field, env.Details[0].Field)
		})
	}
}

func TestSuggestionNoCandidates(t *testing.T) {
	a := newTestAPI(t)

	code, env := a.do(t, http.MethodGet, "/api/random/suggestion", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.Equal(t, noCandidatesMessage, env.Error)
}

func TestSuggestionServiceErrors(t *testing.T) {
	a := newTestAPI(t)

	a.suggester.err = fmt.Errorf("%w: bad", selection.ErrInvalidOption)
	code, _ := a.do(t, http.MethodGet, "/api/random/suggestion", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	a.suggester.err = errors.New("connection reset")
	code, env := a.do(t, http.MethodGet, "/api/random/suggestion", nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, env.Error, "connection reset")
}

func TestPickWithJSONBody(t *testing.T) {
	a := newTestAPI(t)
	a.suggester.suggestion = testSuggestion("Ramen")

	code, env := a.do(t, http.MethodPost, "/api/random/pick", map[string]any{
		"type":                "meal",
		"exclude_recent_days": 3,
		"filters":             map[string]any{"cuisine": "Japanese", "tags": []string{"Noodles"}},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, env.Message, "Ramen")
	assert.Equal(t, 1, a.suggester.picks)

	opts := a.suggester.lastOpts
	assert.Equal(t, models.ItemTypeMeal, opts.Type)
	assert.Equal(t, 3, opts.ExcludeRecentDays)
	assert.Equal(t, "Japanese", opts.Filters.Cuisine)
	assert.Equal(t, []string{"noodles"}, opts.Filters.Tags)
}

func TestPickWithoutBodyUsesQuery(t *testing.T) {
	a := newTestAPI(t)
	a.suggester.suggestion = testSuggestion("Ramen")

	code, _ := a.do(t, http.MethodPost, "/api/random/pick?type=meal", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.ItemTypeMeal, a.suggester.lastOpts.Type)
}

func TestPickNothingToPick(t *testing.T) {
	a := newTestAPI(t)

	code, _ := a.do(t, http.MethodPost, "/api/random/pick", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, 0, a.suggester.picks)
}

func TestTimeBased(t *testing.T) {
	a := newTestAPI(t)

	code, _ := a.do(t, http.MethodGet, "/api/random/time-based", nil)
	assert.Equal(t, http.StatusNotFound, code)

	s := testSuggestion("Toast")
	s.MealTime = models.MealTimeBreakfast
	a.suggester.suggestion = s

	code, env := a.do(t, http.MethodGet, "/api/random/time-based", nil)
	require.Equal(t, http.StatusOK, code)

	var got models.Suggestion
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, models.MealTimeBreakfast, got.MealTime)
}

func TestDiverse(t *testing.T) {
	a := newTestAPI(t)
	a.suggester.list = []*models.Suggestion{testSuggestion("A"), testSuggestion("B")}

	code, env := a.do(t, http.MethodGet, "/api/random/diverse", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, defaultDiverseCount, a.suggester.lastCount)

	var got []models.Suggestion
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 2)

	code, _ = a.do(t, http.MethodGet, "/api/random/diverse?count=5", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5, a.suggester.lastCount)

	code, _ = a.do(t, http.MethodGet, "/api/random/diverse?count=0", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, defaultDiverseCount, a.suggester.lastCount)

	a.suggester.list = nil
	code, _ = a.do(t, http.MethodGet, "/api/random/diverse", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPersonalized(t *testing.T) {
	a := newTestAPI(t)
	a.suggester.list = []*models.Suggestion{testSuggestion("A")}

	code, _ := a.do(t, http.MethodGet, "/api/random/personalized", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, defaultPersonalizedLimit, a.suggester.lastCount)

	code, _ = a.do(t, http.MethodGet, "/api/random/personalized?limit=2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, a.suggester.lastCount)
}

func TestHistoryPagination(t *testing.T) {
	a := newTestAPI(t)
	a.suggester.history = []models.SelectionHistoryEntry{{UserID: "u1", ItemType: models.ItemTypeMeal, ItemID: "m1"}}
	a.suggester.total = 45

	code, env := a.do(t, http.MethodGet, "/api/random/history?page=2", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, Pagination{Page: 2, Limit: 20, Total: 45, Pages: 3}, *env.Pagination)
	assert.Equal(t, 2, a.suggester.lastPage)

	code, _ = a.do(t, http.MethodGet, "/api/random/history?limit=1000", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, maxHistoryLimit, a.suggester.lastLimit)
}

func TestClearHistory(t *testing.T) {
	a := newTestAPI(t)
	a.suggester.history = make([]models.SelectionHistoryEntry, 4)

	code, env := a.do(t, http.MethodDelete, "/api/random/history", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, a.suggester.cleared)
	assert.JSONEq(t, `{"deleted":4}`, string(env.Data))
}

func TestStats(t *testing.T) {
	a := newTestAPI(t)
	a.suggester.stats = &selection.Stats{
		Days:   14,
		Total:  2,
		ByType: map[models.ItemType]int{models.ItemTypeMeal: 2},
		Daily:  []history.DayCount{},
	}

	code, env := a.do(t, http.MethodGet, "/api/random/stats?days=14", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 14, a.suggester.lastDays)

	var got selection.Stats
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 2, got.Total)
}

func TestPaginationPages(t *testing.T) {
	assert.Equal(t, int64(0), NewPagination(1, 20, 0).Pages)
	assert.Equal(t, int64(1), NewPagination(1, 20, 20).Pages)
	assert.Equal(t, int64(2), NewPagination(1, 20, 21).Pages)
}
