package config

import (
	"fmt"
	"time"

	"github.com/devarajan8/veritas/internal/configs/env"
)

// Config holds all configuration for the application
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisDeadLetterKey      string
	StreamRetentionDuration time.Duration

	// OCR service
	OCRBaseURL string
	OCRAPIKey  string

	// Reference service
	ReferenceBaseURL string
	ReferenceAPIKey  string

	// Embedding service (optional)
	EmbeddingBaseURL string
	EmbeddingAPIKey  string

	// Remote LLM (optional)
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	// JWT
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Concurrency
	MaxConcurrentAnalyses int

	// Analysis
	AnalysisTimeout time.Duration
	StrictMode      bool

	// Logging
	LogLevel string

	// Server
	ServerPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "analysis:stream")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "analysis:group")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "analysis:dlq")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_DURATION", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour

	// External services
	cfg.OCRBaseURL = env.GetEnv("OCR_BASE_URL", "")
	cfg.OCRAPIKey = env.GetEnv("OCR_API_KEY", "")
	cfg.ReferenceBaseURL = env.GetEnv("REFERENCE_BASE_URL", "")
	cfg.ReferenceAPIKey = env.GetEnv("REFERENCE_API_KEY", "")
	cfg.EmbeddingBaseURL = env.GetEnv("EMBEDDING_BASE_URL", "")
	cfg.EmbeddingAPIKey = env.GetEnv("EMBEDDING_API_KEY", "")
	cfg.LLMBaseURL = env.GetEnv("LLM_BASE_URL", "")
	cfg.LLMAPIKey = env.GetEnv("LLM_API_KEY", "")
	cfg.LLMModel = env.GetEnv("LLM_MODEL", "llama-3.1-8b-instant")

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "veritas")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Concurrency
	cfg.MaxConcurrentAnalyses = env.GetEnvInt("MAX_CONCURRENT_ANALYSES", 5)

	// Analysis
	timeoutMinutes := env.GetEnvInt("ANALYSIS_TIMEOUT_MINUTES", 10)
	cfg.AnalysisTimeout = time.Duration(timeoutMinutes) * time.Minute
	cfg.StrictMode = env.GetEnvBool("STRICT_AI_DETECTION", false)

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxConcurrentAnalyses <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_ANALYSES must be greater than 0")
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_DURATION must be greater than 0")
	}
	return nil
}
