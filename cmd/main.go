package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devarajan8/veritas/internal/analysis"
	"github.com/devarajan8/veritas/internal/api"
	"github.com/devarajan8/veritas/internal/config"
	"github.com/devarajan8/veritas/internal/configs/env"
	"github.com/devarajan8/veritas/internal/infra/mongo"
	redisInfra "github.com/devarajan8/veritas/internal/infra/redis"
	"github.com/devarajan8/veritas/internal/ingest"
	"github.com/devarajan8/veritas/internal/logger"
	"github.com/devarajan8/veritas/internal/ocr"
	"github.com/devarajan8/veritas/internal/reference"
	"github.com/devarajan8/veritas/internal/repository"
	"github.com/devarajan8/veritas/internal/scorer"
	"github.com/devarajan8/veritas/internal/stream"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel)
	log.Info().Msg("Starting VERITAS server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	defer mongoClient.Close(ctx)

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	defer redisClient.Close()

	// Initialize repositories
	mongoRepo := repository.NewMongoRepository(mongoClient)
	resultsRepo := repository.NewResultsRepository(mongoRepo)

	// Initialize external service clients
	ocrClient := ocr.NewClient(cfg.OCRBaseURL, cfg.OCRAPIKey)

	var refClient *reference.Client
	if cfg.ReferenceBaseURL != "" {
		refClient = reference.NewClient(cfg.ReferenceBaseURL, cfg.ReferenceAPIKey)
	}

	// Build the relevance scorer ladder. Cheapest configured signal first,
	// the keyword baseline is always computed inside the pipeline.
	var scorers []analysis.ExternalScorer
	if cfg.EmbeddingBaseURL != "" {
		scorers = append(scorers, scorer.NewEmbeddingScorer(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey))
		log.Info().Msg("Embedding relevance scorer enabled")
	}
	if cfg.LLMBaseURL != "" {
		scorers = append(scorers, scorer.NewRemoteLLMScorer(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel))
		log.Info().Str("model", cfg.LLMModel).Msg("LLM relevance scorer enabled")
	}

	// Initialize worker pool
	workerPool := analysis.NewWorkerPool(ctx)
	defer workerPool.Close()

	ingestSvc := ingest.NewService(
		ocrClient,
		refClient,
		resultsRepo,
		redisClient,
		workerPool,
		scorers,
		cfg.StrictMode,
	)

	// Initialize retry handler
	retryHandler := stream.NewRetryHandler(redisClient.Client, cfg.RedisDeadLetterKey)

	// Initialize Redis stream consumer
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := stream.NewConsumer(
		redisClient.Client,
		cfg.RedisStreamKey,
		cfg.RedisConsumerGroup,
		consumerName,
		ingestSvc,
		retryHandler,
		cfg.StreamRetentionDuration,
	)
	log.Info().Str("consumer_name", consumerName).Msg("Redis stream consumer initialized")

	router := api.SetupRoutes(cfg, ingestSvc, resultsRepo, redisClient)

	// Start Redis consumer in background
	consumerCtx, consumerCancel := context.WithCancel(ctx)
	go func() {
		defer consumerCancel()
		if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Redis consumer error")
		}
	}()
	log.Info().Msg("Redis consumer started")

	// Start Gin server
	srv := api.StartServer(router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down Gin server")
	}

	log.Info().Msg("Shutdown complete")
}
