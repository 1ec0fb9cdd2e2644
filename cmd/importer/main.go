package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bradykim7/mealroulette/internal/importer"
	"github.com/bradykim7/mealroulette/internal/storage"
	"github.com/bradykim7/mealroulette/pkg/config"
	"github.com/bradykim7/mealroulette/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	pageURL := flag.String("url", "", "page to scrape restaurants from (defaults to IMPORT_URL)")
	userID := flag.String("user", "", "owner of the imported items (defaults to IMPORT_USER_ID)")
	exportPath := flag.String("export", "", "write the user's catalog to this JSON file")
	importPath := flag.String("import", "", "add items from this JSON export file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if *pageURL != "" {
		cfg.ImportURL = *pageURL
	}
	if *userID != "" {
		cfg.ImportUserID = *userID
	}

	log := logger.New("importer", cfg.LogDir, cfg.LogLevel)
	defer log.Sync()

	if cfg.ImportUserID == "" {
		log.Fatal("A user id is required (-user or IMPORT_USER_ID)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
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
	imp := importer.New(catalog.Meals, catalog.Restaurants, log)

	switch {
	case *exportPath != "":
		err = exportFile(ctx, imp, cfg.ImportUserID, *exportPath)
	case *importPath != "":
		err = importFile(ctx, imp, cfg.ImportUserID, *importPath, log)
	default:
		err = scrape(ctx, imp, cfg, log)
	}
	if err != nil {
		log.Error("Import failed", zap.Error(err))
		return
	}
}

func scrape(ctx context.Context, imp *importer.Importer, cfg *config.Config, log *zap.Logger) error {
	if err := cfg.ValidateImporter(); err != nil {
		return err
	}

	source := importer.NewHTMLSource(cfg.ImportURL, importer.Selectors{
		Item:    cfg.ImportItemSelector,
		Name:    cfg.ImportNameSelector,
		Cuisine: cfg.ImportCuisineSelector,
		Rating:  cfg.ImportRatingSelector,
		Address: cfg.ImportAddressSelector,
		Tags:    cfg.ImportTagSelector,
	}, importer.NewFetcher(log), log)

	result, err := imp.Run(ctx, cfg.ImportUserID, source)
	if err != nil {
		return err
	}
	log.Info("Scrape finished",
		zap.Int("added", result.Added),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return nil
}

func exportFile(ctx context.Context, imp *importer.Importer, userID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return imp.Export(ctx, userID, f)
}

func importFile(ctx context.Context, imp *importer.Importer, userID, path string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := imp.ImportJSON(ctx, userID, f)
	if err != nil {
		return err
	}
	log.Info("File import finished",
		zap.Int("meals_added", result.Meals.Added),
		zap.Int("meals_skipped", result.Meals.Skipped),
		zap.Int("restaurants_added", result.Restaurants.Added),
		zap.Int("restaurants_skipped", result.Restaurants.Skipped))
	return nil
}
