package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"franmap/adapters/store"
	"franmap/adapters/tabular"
	"franmap/internal"
	"franmap/internal/cleaning"
	"franmap/internal/config"
	"franmap/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.DefaultLogger
	ctx := context.Background()

	db, err := store.Open(appConfig.Database.Driver, appConfig.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	brandStore := store.NewBrandStore(db)
	if err := brandStore.Init(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	loadID, report, err := ingest(ctx, brandStore, appConfig.Data.File)
	if err != nil {
		log.Fatalf("Failed to load dataset from %s: %v", appConfig.Data.File, err)
	}
	logger.Info("Dataset loaded: %d rows kept, %d skipped, %d duplicates (load %s)",
		report.RowsKept, report.RowsSkipped, report.Duplicates, loadID)
	for _, warning := range report.Warnings {
		logger.Warn("%s", warning)
	}

	server, err := ui.NewServer(ui.Config{
		Port:         appConfig.Server.Port,
		MaxTableRows: appConfig.Data.MaxTableRows,
	}, brandStore, loadID, report)
	if err != nil {
		log.Fatalf("Failed to create dashboard server: %v", err)
	}

	if err := server.Start(); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

// ingest runs the startup pipeline: read the source file, clean it, and
// replace the store contents.
func ingest(ctx context.Context, brandStore *store.BrandStore, dataFile string) (string, *cleaning.Report, error) {
	reader := tabular.NewDataReader(dataFile)
	table, err := reader.ReadData()
	if err != nil {
		return "", nil, err
	}

	records, report, err := cleaning.Clean(table)
	if err != nil {
		return "", nil, err
	}

	loadID, err := brandStore.ReplaceAll(ctx, records, dataFile, report.RowsSkipped, report.Duplicates)
	if err != nil {
		return "", nil, err
	}
	return loadID, report, nil
}
