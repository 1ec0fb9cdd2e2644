package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bradykim7/mealroulette/internal/api"
	"github.com/bradykim7/mealroulette/internal/auth"
	"github.com/bradykim7/mealroulette/internal/history"
	"github.com/bradykim7/mealroulette/internal/selection"
	"github.com/bradykim7/mealroulette/internal/storage"
	"github.com/bradykim7/mealroulette/pkg/config"
	"github.com/bradykim7/mealroulette/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	issueFor := flag.String("issue-token", "", "print an API token for the given user id and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	tokens := auth.NewService(cfg.JWTSecret, auth.DefaultTokenTTL)
	if *issueFor != "" {
		token, err := tokens.Issue(*issueFor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	log := logger.New("server", cfg.LogDir, cfg.LogLevel)
	defer log.Sync()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create context that will be canceled on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.NewMongoDB(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := db.Disconnect(); err != nil {
			log.Error("Error closing MongoDB", zap.Error(err))
		}
	}()
	db.EnsureIndexes(ctx)

	catalog := storage.NewCatalog(db, log)
	historyRepo := storage.NewHistoryRepository(db, log)
	service := selection.NewService(selection.NewEngine(nil), catalog, historyRepo, log)

	sweeper := history.NewSweeper(historyRepo, cfg.HistoryRetentionDays, log)
	go sweeper.StartScheduledRuns(ctx, time.Duration(cfg.RetentionSweepMinutes)*time.Minute)

	router := api.NewRouter(api.Dependencies{
		Suggestions:        service,
		Meals:              catalog.Meals,
		Restaurants:        catalog.Restaurants,
		Tokens:             tokens,
		Health:             db.Ping,
		DefaultExcludeDays: cfg.DefaultExcludeDays,
		Log:                log,
	})
	server := api.NewServer(cfg.HTTPAddr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Handle graceful shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sc:
		log.Info("Received shutdown signal, gracefully shutting down...")
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", zap.Error(err))
	}

	log.Info("Server shut down successfully")
}
