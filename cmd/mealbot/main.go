package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bradykim7/mealroulette/internal/bot"
	"github.com/bradykim7/mealroulette/internal/selection"
	"github.com/bradykim7/mealroulette/internal/storage"
	"github.com/bradykim7/mealroulette/pkg/config"
	"github.com/bradykim7/mealroulette/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New("mealbot", cfg.LogDir, cfg.LogLevel)
	defer log.Sync()

	if err := cfg.ValidateBot(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	// Create context that will be canceled on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sc := make(chan os.Signal, 1)
		signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
		<-sc
		log.Info("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

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

	// Initialize and run the bot
	discordBot, err := bot.New(cfg, bot.Dependencies{
		Suggestions: service,
		Meals:       catalog.Meals,
		Restaurants: catalog.Restaurants,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize bot", zap.Error(err))
	}

	if err := discordBot.Start(ctx); err != nil {
		log.Error("Bot error", zap.Error(err))
		return
	}

	log.Info("Discord bot shut down successfully")
}
