package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/clivewatts/stock-tracker/internal/application"
	"github.com/clivewatts/stock-tracker/internal/application/webhook_handlers"
	"github.com/clivewatts/stock-tracker/internal/domain"
	apiinfra "github.com/clivewatts/stock-tracker/internal/infrastructure/api"
	"github.com/clivewatts/stock-tracker/internal/infrastructure/cache"
	securitymiddleware "github.com/clivewatts/stock-tracker/internal/infrastructure/middleware"
	"github.com/clivewatts/stock-tracker/internal/infrastructure/repository"
	shopifyinfra "github.com/clivewatts/stock-tracker/internal/infrastructure/shopify"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("No .env file found")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDatabase := os.Getenv("MONGODB_DATABASE")
	if mongoDatabase == "" {
		mongoDatabase = "stock_tracker"
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(mongoDatabase)

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	// Repositories. Constructors ensure their indexes, so a broken index
	// definition aborts startup instead of being discovered on first write.
	productRepo, err := repository.NewMongoProductRepository(db)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize product repository")
	}
	productTypeRepo, err := repository.NewMongoProductTypeRepository(db)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize product type repository")
	}
	skuRepo, err := repository.NewMongoSKURepository(db)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize sku repository")
	}
	saleRepo := repository.NewMongoSaleRepository(db)
	userRepo, err := repository.NewMongoUserRepository(db)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize user repository")
	}
	settingsRepo, err := repository.NewMongoSettingsRepository(db)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize settings repository")
	}

	// Application services
	clientFactory := func(settings domain.ShopifySettings) (ports.ShopifyClient, error) {
		return shopifyinfra.NewClient(settings, logger)
	}
	syncService := application.NewSyncService(productRepo, productTypeRepo, skuRepo, settingsRepo, clientFactory, logger)
	catalogService := application.NewCatalogService(productRepo, saleRepo, syncService, logger)
	settingsService := application.NewSettingsService(settingsRepo, syncService, logger)

	// Webhook dispatcher and handlers
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewProductWebhookHandler(productRepo, logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewInventoryWebhookHandler(productRepo, logger))

	replayGuard := cache.NewRedisReplayGuard(rdb, logger)

	// HTTP handlers
	productHandler := apiinfra.NewProductHandler(productRepo, catalogService, logger)
	productTypeHandler := apiinfra.NewProductTypeHandler(productTypeRepo, logger)
	skuHandler := apiinfra.NewSKUHandler(skuRepo, logger)
	saleHandler := apiinfra.NewSaleHandler(saleRepo, catalogService, logger)
	userHandler := apiinfra.NewUserHandler(userRepo, logger)
	settingsHandler := apiinfra.NewSettingsHandler(settingsService, syncService, logger)
	webhookHandler := apiinfra.NewWebhookHandler(settingsRepo, replayGuard, webhookDispatcher, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Webhook endpoint authenticates by HMAC signature, not API token
	r.Post("/webhooks/shopify", webhookHandler.Handle)

	// Authenticated API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(securitymiddleware.RequireAuth(userRepo, logger))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Get("/{id}", productHandler.Get)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
			r.Get("/{id}/sales", saleHandler.ListByProduct)
		})

		r.Route("/product-types", func(r chi.Router) {
			r.Get("/", productTypeHandler.List)
			r.Post("/", productTypeHandler.Create)
			r.Put("/{id}", productTypeHandler.Update)
			r.Delete("/{id}", productTypeHandler.Delete)
		})

		r.Route("/skus", func(r chi.Router) {
			r.Get("/", skuHandler.List)
			r.Post("/", skuHandler.Create)
			r.Delete("/{id}", skuHandler.Delete)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", saleHandler.List)
			r.Post("/", saleHandler.Create)
		})

		// Admin-only surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(securitymiddleware.RequireAdmin)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})

			r.Route("/integrations/shopify", func(r chi.Router) {
				r.Get("/", settingsHandler.Get)
				r.Put("/", settingsHandler.Put)
				r.Post("/test", settingsHandler.Test)
				r.Post("/sync", settingsHandler.SyncAll)
				r.Post("/import", settingsHandler.ImportAll)
			})
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
