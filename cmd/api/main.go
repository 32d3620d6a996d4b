package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"shopsight-gateway/internal/application"
	"shopsight-gateway/internal/config"
	"shopsight-gateway/internal/infrastructure/api"
	"shopsight-gateway/internal/infrastructure/cache"
	"shopsight-gateway/internal/infrastructure/insights"
	"shopsight-gateway/internal/infrastructure/metrics"
	"shopsight-gateway/internal/infrastructure/repository"
	shopifyinfra "shopsight-gateway/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	storemiddleware "shopsight-gateway/internal/infrastructure/middleware"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("MongoDB is unreachable")
	}

	db := client.Database(cfg.MongoDatabase)

	// Connect to Redis (OAuth state cache)
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Redis is unreachable")
	}

	// Initialize repositories
	storeRepo := repository.NewMongoStoreRepository(db)
	logRepo := repository.NewMongoRequestLogRepository(db)

	indexCtx, cancelIdx := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIdx()
	if err := storeRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create store indexes")
	}
	if err := logRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create request log indexes")
	}

	// Initialize infrastructure (implementations)
	stateStore := cache.NewRedisStateStore(redisClient)
	oauthClient := shopifyinfra.NewOAuthClient(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret, logger)
	graphqlClient := shopifyinfra.NewGraphQLClient(cfg.ShopifyAPIVersion, logger)
	insightsClient := insights.NewClient(cfg.AIBaseURL, logger)
	m := metrics.New()

	// Initialize application services
	oauthService := application.NewOAuthService(storeRepo, stateStore, oauthClient, cfg.Scopes, cfg.RedirectURI(), logger)
	authService := application.NewAuthService(storeRepo, logger)
	commerceService := application.NewCommerceService(graphqlClient, logger)
	auditService := application.NewAuditService(logRepo, m.AuditLogFailures, logger)
	insightsService := application.NewInsightsService(insightsClient, auditService, m, logger)
	storeService := application.NewStoreService(storeRepo, logRepo, logger)

	checkDatabase := func(ctx context.Context) bool {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.RunCommand(pingCtx, bson.D{{Key: "ping", Value: 1}}).Err() == nil
	}

	handler := api.NewHandler(
		oauthService,
		authService,
		commerceService,
		insightsService,
		storeService,
		auditService,
		insightsClient,
		checkDatabase,
		cfg.Version,
		logger,
	)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", handler.Health)
	r.Handle("/metrics", m.Handler())

	// Swagger documentation - public
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// OAuth routes
	r.Get("/auth/start", handler.AuthStart)
	r.Get("/auth/callback", handler.AuthCallback)
	r.Delete("/auth/logout", handler.AuthLogout)

	// Question routes. The question endpoint resolves the store itself so it
	// can report a missing question before a missing store.
	r.Post("/api/v1/questions", handler.AskQuestion)
	r.Get("/api/v1/questions/supported", handler.SupportedQuestions)

	// Store registry routes; available for disconnected stores too
	r.Get("/api/v1/stores", handler.ListStores)
	r.Get("/api/v1/stores/{id}", handler.GetStore)
	r.Get("/api/v1/stores/{id}/status", handler.StoreStatus)
	r.Delete("/api/v1/stores/{id}", handler.RemoveStore)

	// Data routes requiring a connected store
	r.Group(func(r chi.Router) {
		r.Use(storemiddleware.StoreAuth(authService, logger))

		r.Get("/api/v1/orders", handler.ListOrders)
		r.Get("/api/v1/orders/{id}", handler.GetOrder)
		r.Get("/api/v1/products", handler.ListProducts)
		r.Get("/api/v1/products/{id}", handler.GetProduct)
		r.Get("/api/v1/customers", handler.ListCustomers)
		r.Get("/api/v1/customers/{id}", handler.GetCustomer)
		r.Get("/api/v1/inventory", handler.Inventory)
		r.Post("/api/v1/analytics", handler.Analytics)
		r.Get("/api/v1/logs", handler.Logs)
	})

	logger.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
