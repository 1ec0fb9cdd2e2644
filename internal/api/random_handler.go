package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/bradykim7/mealroulette/internal/selection"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultDiverseCount       = 3
	defaultPersonalizedLimit  = 5
	defaultHistoryLimit       = 20
	maxHistoryLimit           = 100
	noCandidatesMessage       = "No meals or restaurants match the request. Add more items, loosen the filters or shorten the exclusion window."
	noTimeBasedCandidatesText = "Nothing in your catalog fits right now. Add some meals or restaurants first."
)

// Suggester is the selection surface the random endpoints expose
type Suggester interface {
	GetRandomSuggestion(ctx context.Context, userID string, opts selection.Options) (*models.Suggestion, error)
	PickRandom(ctx context.Context, userID string, opts selection.Options) (*models.Suggestion, error)
	GetTimeBasedSuggestion(ctx context.Context, userID string, opts selection.Options) (*models.Suggestion, error)
	GetDiverseSuggestions(ctx context.Context, userID string, count int, opts selection.Options) ([]*models.Suggestion, error)
	GetPersonalizedSuggestions(ctx context.Context, userID string, limit int) ([]*models.Suggestion, error)
	History(ctx context.Context, userID string, page, limit int) ([]models.SelectionHistoryEntry, int64, error)
	Stats(ctx context.Context, userID string, days int) (*selection.Stats, error)
	ClearHistory(ctx context.Context, userID string) (int64, error)
}

type randomHandler struct {
	suggester          Suggester
	defaultExcludeDays int
	log                *zap.Logger
}

// suggestionRequest carries suggestion options from the query string or a JSON body
type suggestionRequest struct {
	Type              string        `form:"type" json:"type" binding:"omitempty,itemtype"`
	ExcludeRecentDays *int          `form:"exclude_recent_days" json:"exclude_recent_days" binding:"omitempty,min=0,max=365"`
	WeightFavorites   *bool         `form:"weight_favorites" json:"weight_favorites"`
	Count             int           `form:"count" json:"count" binding:"omitempty,min=1"`
	Filters           models.Filter `json:"filters"`
}

type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

type statsQuery struct {
	Days int `form:"days"`
}

type limitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (h *randomHandler) register(r gin.IRouter) {
	random := r.Group("/random")
	random.GET("/suggestion", h.suggestion)
	random.POST("/pick", h.pick)
	random.GET("/time-based", h.timeBased)
	random.GET("/diverse", h.diverse)
	random.GET("/personalized", h.personalized)
	random.GET("/history", h.history)
	random.DELETE("/history", h.clearHistory)
	random.GET("/stats", h.stats)
}

func (h *randomHandler) bind(c *gin.Context) (*suggestionRequest, selection.Options, bool) {
	req := &suggestionRequest{}

	var err error
	if c.Request.ContentLength > 0 && c.ContentType() == gin.MIMEJSON {
		err = c.ShouldBindJSON(req)
	} else {
		err = c.ShouldBindQuery(req)
	}
	if err != nil {
		badRequest(c, err)
		return nil, selection.Options{}, false
	}

	itemType, _ := models.ParseItemType(req.Type)
	opts := selection.Options{
		Type:              itemType,
		ExcludeRecentDays: h.defaultExcludeDays,
		WeightFavorites:   true,
		Filters:           req.Filters,
	}
	if req.ExcludeRecentDays != nil {
		opts.ExcludeRecentDays = *req.ExcludeRecentDays
	}
	if req.WeightFavorites != nil {
		opts.WeightFavorites = *req.WeightFavorites
	}
	opts.Filters.Tags = splitTags(opts.Filters.Tags)

	return req, opts, true
}

// splitTags accepts both repeated and comma separated tag parameters
func splitTags(raw []string) []string {
	var tags []string
	for _, value := range raw {
		tags = append(tags, strings.Split(value, ",")...)
	}
	return models.NormalizeTags(tags)
}

func (h *randomHandler) serviceError(c *gin.Context, err error) {
	if errors.Is(err, selection.ErrInvalidOption) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	_ = c.Error(err)
	h.log.Error("Selection failed",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("user_id", currentUser(c)),
		zap.Error(err))
	fail(c, http.StatusInternalServerError, "Failed to generate a suggestion")
}

func (h *randomHandler) suggestion(c *gin.Context) {
	_, opts, valid := h.bind(c)
	if !valid {
		return
	}

	suggestion, err := h.suggester.GetRandomSuggestion(c.Request.Context(), currentUser(c), opts)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if suggestion == nil {
		fail(c, http.StatusNotFound, noCandidatesMessage)
		return
	}
	ok(c, suggestion)
}

func (h *randomHandler) pick(c *gin.Context) {
	_, opts, valid := h.bind(c)
	if !valid {
		return
	}

	suggestion, err := h.suggester.PickRandom(c.Request.Context(), currentUser(c), opts)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if suggestion == nil {
		fail(c, http.StatusNotFound, noCandidatesMessage)
		return
	}
	okWithMessage(c, suggestion, "Selection recorded: enjoy "+suggestion.Item().ItemName()+"!")
}

func (h *randomHandler) timeBased(c *gin.Context) {
	_, opts, valid := h.bind(c)
	if !valid {
		return
	}

	suggestion, err := h.suggester.GetTimeBasedSuggestion(c.Request.Context(), currentUser(c), opts)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if suggestion == nil {
		fail(c, http.StatusNotFound, noTimeBasedCandidatesText)
		return
	}
	ok(c, suggestion)
}

func (h *randomHandler) diverse(c *gin.Context) {
	req, opts, valid := h.bind(c)
	if !valid {
		return
	}

	count := req.Count
	if count == 0 {
		count = defaultDiverseCount
	}

	suggestions, err := h.suggester.GetDiverseSuggestions(c.Request.Context(), currentUser(c), count, opts)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if len(suggestions) == 0 {
		fail(c, http.StatusNotFound, noCandidatesMessage)
		return
	}
	ok(c, suggestions)
}

func (h *randomHandler) personalized(c *gin.Context) {
	var q limitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultPersonalizedLimit
	}

	suggestions, err := h.suggester.GetPersonalizedSuggestions(c.Request.Context(), currentUser(c), q.Limit)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if len(suggestions) == 0 {
		fail(c, http.StatusNotFound, noCandidatesMessage)
		return
	}
	ok(c, suggestions)
}

func (h *randomHandler) history(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, limit := normalizePage(q)

	entries, total, err := h.suggester.History(c.Request.Context(), currentUser(c), page, limit)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	okPage(c, entries, NewPagination(page, limit, total))
}

func (h *randomHandler) clearHistory(c *gin.Context) {
	deleted, err := h.suggester.ClearHistory(c.Request.Context(), currentUser(c))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	okWithMessage(c, gin.H{"deleted": deleted}, "Selection history cleared")
}

func (h *randomHandler) stats(c *gin.Context) {
	var q statsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	stats, err := h.suggester.Stats(c.Request.Context(), currentUser(c), q.Days)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	ok(c, stats)
}

func normalizePage(q pageQuery) (int, int) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return page, limit
}
