// Command sync runs one catalog reconciliation from the command line. It is
// meant for operators and cron environments that cannot reach the admin API.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/whycurls/wholesale-backend/internal/catalog"
	"github.com/whycurls/wholesale-backend/internal/catalogsync"
	"github.com/whycurls/wholesale-backend/internal/config"
	"github.com/whycurls/wholesale-backend/internal/feed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if err := cfg.ValidateSync(); err != nil {
		log.Fatalf("[sync] %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("[sync] DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[sync] opening database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("[sync] pinging database: %v", err)
	}

	client := feed.NewClient(cfg.FeedBaseURL, cfg.FeedStoreID, cfg.FeedAccessToken, cfg.FeedUserAgent)
	service := catalogsync.NewService(
		client,
		catalog.NewPostgresRepository(db),
		catalogsync.NewPostgresRunRepository(db),
		catalogsync.NewMetrics(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	runID, result, err := service.Sync(ctx)
	if err != nil {
		log.Fatalf("[sync] run %s failed: %v", runID, err)
	}
	log.Printf("[sync] run %s: imported=%d updated=%d errors=%d total=%d",
		runID, result.Imported, result.Updated, result.Errors, result.Total)
	for _, msg := range result.ErrorMessages {
		log.Printf("[sync] record error: %s", msg)
	}
}
