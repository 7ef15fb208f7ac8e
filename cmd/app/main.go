package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/whycurls/wholesale-backend/internal/catalog"
	"github.com/whycurls/wholesale-backend/internal/catalogsync"
	"github.com/whycurls/wholesale-backend/internal/config"
	"github.com/whycurls/wholesale-backend/internal/feed"
	"github.com/whycurls/wholesale-backend/internal/lead"
	"github.com/whycurls/wholesale-backend/internal/notify"
	"github.com/whycurls/wholesale-backend/internal/order"
	"github.com/whycurls/wholesale-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, cfg.JWTSecret)

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(catalogService, userService)

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.WhatsAppConfigured() {
		notifier = notify.NewWhatsAppNotifier(cfg.WhatsAppURL, cfg.WhatsAppToken, cfg.WhatsAppDestNumber)
	}
	orderService := order.NewService(order.NewPostgresRepository(db), catalogRepo, notifier)
	orderHandler := order.NewHandler(orderService, userService)

	leadHandler := lead.NewHandler(lead.NewPostgresRepository(db), userService)

	// sync stack: the feed client and the catalog repo are shared with the
	// scheduler so manual and scheduled runs go through the same service.
	feedClient := feed.NewClient(cfg.FeedBaseURL, cfg.FeedStoreID, cfg.FeedAccessToken, cfg.FeedUserAgent)
	metrics := catalogsync.NewMetrics()
	syncService := catalogsync.NewService(feedClient, catalogRepo, catalogsync.NewPostgresRunRepository(db), metrics)
	syncHandler := catalogsync.NewHandler(syncService, userService, cfg.ValidateSync(), catalogService.InvalidateCache)

	userHandler.RegisterPublicRoutes(app)
	leadHandler.RegisterPublicRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	app.Use(user.NewAuthMiddleware(cfg.JWTSecret))

	userHandler.RegisterProtectedRoutes(app)
	catalogHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	leadHandler.RegisterProtectedRoutes(app)
	syncHandler.RegisterProtectedRoutes(app)

	if cfg.SyncSchedule != "" {
		if err := cfg.ValidateSync(); err != nil {
			log.Printf("[sync] scheduler disabled: %v", err)
		} else {
			scheduler := catalogsync.NewScheduler(syncService, catalogService.InvalidateCache)
			if err := scheduler.Start(cfg.SyncSchedule); err != nil {
				log.Printf("[sync] scheduler disabled: bad SYNC_SCHEDULE: %v", err)
			} else {
				defer scheduler.Stop()
			}
		}
	}

	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func ensureSchema(db *sql.DB) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id SERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			full_name TEXT,
			whatsapp TEXT,
			role TEXT NOT NULL DEFAULT 'reseller',
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_products (
			id TEXT PRIMARY KEY,
			external_product_id BIGINT,
			name TEXT NOT NULL,
			description_html TEXT,
			price NUMERIC NOT NULL DEFAULT 0,
			compare_at_price NUMERIC,
			images TEXT[],
			main_image TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			source TEXT NOT NULL,
			updated_from_source_at TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS catalog_products_external_id
			ON catalog_products (external_product_id)
			WHERE external_product_id IS NOT NULL`,
		`CREATE TABLE IF NOT EXISTS catalog_sync_runs (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			imported INT NOT NULL DEFAULT 0,
			updated INT NOT NULL DEFAULT 0,
			skipped INT NOT NULL DEFAULT 0,
			errors INT NOT NULL DEFAULT 0,
			error_message TEXT,
			started_at TEXT,
			finished_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id INT NOT NULL,
			status TEXT NOT NULL,
			subtotal NUMERIC NOT NULL DEFAULT 0,
			shipping NUMERIC NOT NULL DEFAULT 0,
			total NUMERIC NOT NULL DEFAULT 0,
			customer_name TEXT,
			customer_whatsapp TEXT,
			customer_email TEXT,
			notes TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id),
			product_id TEXT,
			product_name TEXT,
			unit_price NUMERIC NOT NULL DEFAULT 0,
			qty INT NOT NULL DEFAULT 1,
			line_total NUMERIC NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			whatsapp TEXT NOT NULL,
			cpf_cnpj TEXT,
			email TEXT,
			created_at TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
