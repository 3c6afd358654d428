package api

import (
	"github.com/devarajan8/veritas/internal/config"
	"github.com/devarajan8/veritas/internal/infra/redis"
	"github.com/devarajan8/veritas/internal/ingest"
	"github.com/devarajan8/veritas/internal/repository"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	cfg *config.Config,
	ingestSvc *ingest.Service,
	resultsRepo *repository.ResultsRepository,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.Default()

	handler := NewHandler(cfg, ingestSvc, resultsRepo, redisClient)

	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/analyze", handler.Analyze)
		api.GET("/results/:assignmentId", handler.GetResult)
		api.GET("/status/:assignmentId", handler.GetStatus)
	}

	return router
}
