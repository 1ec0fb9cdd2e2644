package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies wires the router to its collaborators
type Dependencies struct {
	Suggestions        Suggester
	Meals              ItemStore[models.Meal]
	Restaurants        ItemStore[models.Restaurant]
	Tokens             TokenParser
	Health             func(ctx context.Context) error
	DefaultExcludeDays int
	Log                *zap.Logger
}

// NewRouter builds the HTTP routes. /healthz is public, everything under /api needs a token.
func NewRouter(deps Dependencies) *gin.Engine {
	log := deps.Log.Named("api")
	SetupValidator()

	router := gin.New()
	router.Use(RequestID(), Recovery(log), AccessLog(log))

	router.GET("/healthz", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health(c.Request.Context()); err != nil {
				fail(c, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		ok(c, gin.H{"status": "ok"})
	})

	api := router.Group("/api", RequireAuth(deps.Tokens))

	random := &randomHandler{
		suggester:          deps.Suggestions,
		defaultExcludeDays: deps.DefaultExcludeDays,
		log:                log,
	}
	random.register(api)

	meals := &catalogHandler[models.Meal, mealRequest]{
		store: deps.Meals,
		kind:  "meal",
		build: buildMeal,
		log:   log,
	}
	meals.register(api, "/meals")

	restaurants := &catalogHandler[models.Restaurant, restaurantRequest]{
		store: deps.Restaurants,
		kind:  "restaurant",
		build: buildRestaurant,
		log:   log,
	}
	restaurants.register(api, "/restaurants")

	return router
}

// Server runs the HTTP API
type Server struct {
	http *http.Server
	log  *zap.Logger
}

// NewServer creates a server listening on addr
func NewServer(addr string, handler http.Handler, log *zap.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log.Named("http"),
	}
}

// Start blocks serving requests until Shutdown is called
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	return s.http.Shutdown(ctx)
}
