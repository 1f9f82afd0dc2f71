// Package main is the entry point for the Campaign Manager API.
//
// @title Campaign Manager API
// @version 1.0
// @description Outreach campaigns with soft delete, plus LLM-written personalized messages.
// @BasePath /
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/white/campaign-manager/config"
	"github.com/white/campaign-manager/docs"
	"github.com/white/campaign-manager/internal/cache"
	"github.com/white/campaign-manager/internal/events"
	"github.com/white/campaign-manager/internal/handlers"
	"github.com/white/campaign-manager/internal/middleware"
	"github.com/white/campaign-manager/internal/repositories"
	"github.com/white/campaign-manager/internal/services"
	"github.com/white/campaign-manager/pkg/kafka"
	"github.com/white/campaign-manager/pkg/mongodb"
)

func main() {
	// Load environment variables (ignore error in dev)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	checks := map[string]handlers.HealthCheckFunc{}

	// Campaign store
	var campaignRepo repositories.CampaignRepository
	var mongoClient *mongodb.Client
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Println("Using in-memory campaign store")
		campaignRepo = repositories.NewMemoryCampaignRepository()
	default:
		mongoClient, err = mongodb.NewClient(mongodb.Config{
			URI:         cfg.MongoDB.URI,
			Database:    cfg.MongoDB.Database,
			MaxPoolSize: cfg.MongoDB.MaxPoolSize,
			MinPoolSize: cfg.MongoDB.MinPoolSize,
			MaxRetries:  cfg.MongoDB.MaxRetries,
			TLSCAFile:   cfg.MongoDB.TLSCAFile,
		})
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		campaignRepo = repositories.NewMongoCampaignRepository(mongoClient, cfg.MongoDB.CampaignCollection, cfg.MongoDB.OperationTimeout)
		checks["mongodb"] = mongoClient.Ping
	}

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := campaignRepo.EnsureIndexes(indexCtx); err != nil {
		log.Printf("Warning: failed to create campaign indexes: %v", err)
	}
	cancelIndex()

	// Optional read-through cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		campaignCache := cache.NewCampaignCache(redisClient, cfg.Redis.CampaignTTL)
		campaignRepo = repositories.NewCachedCampaignRepository(campaignRepo, campaignCache)
		checks["redis"] = campaignCache.Ping
		log.Printf("Campaign cache enabled (%s, ttl %v)", cfg.Redis.Addr, cfg.Redis.CampaignTTL)
	}

	// Lifecycle events
	var producer *kafka.Producer
	var publisher *events.CampaignPublisher
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatalf("Failed to create Kafka producer: %v", err)
		}
		publisher = events.NewCampaignPublisher(producer, cfg.Kafka.Topics.CampaignEvents)
	} else {
		// Untyped nil so the publisher sees no producer
		publisher = events.NewCampaignPublisher(nil, cfg.Kafka.Topics.CampaignEvents)
	}

	if cfg.OpenAI.APIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, message generation will fail")
	}
	generator := services.NewOpenAIMessageGenerator(cfg.OpenAI)

	// Handlers and routes
	router := handlers.NewRouter(
		cfg.Server.BasePath,
		handlers.NewHealthHandler("campaign-manager", cfg.Server.Version, checks),
		handlers.NewCampaignHandler(campaignRepo, publisher),
		handlers.NewMessageHandler(generator),
	)

	// Swagger UI endpoint - API documentation
	if cfg.Server.BasePath != "" {
		docs.SwaggerInfo.BasePath = cfg.Server.BasePath
	}
	if cfg.Server.Version != "" {
		docs.SwaggerInfo.Version = cfg.Server.Version
	}
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	// CORS wraps the router so preflight requests never reach route matching
	handler := middleware.Recoverer(middleware.RequestLogger(middleware.CORS(cfg.CORS.AllowedOrigins)(router)))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		log.Printf("Server running on %s (storage: %s, base path: %q)", srv.Addr, cfg.Storage.Driver, cfg.Server.BasePath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if producer != nil {
		producer.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}

	log.Println("Server stopped")
}
