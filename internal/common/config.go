package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database    DatabaseConfig
	Server      ServerConfig
	VectorStore VectorStoreConfig
	Chunking    ChunkingConfig
	Extraction  ExtractionConfig
	LLM         LLMConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// VectorStoreConfig holds embedded vector store configuration
type VectorStoreConfig struct {
	Path           string
	Collection     string
	EmbeddingModel string
}

// ChunkingConfig holds document segmentation parameters
type ChunkingConfig struct {
	ChunkSize    int
	ChunkOverlap int
	MinChunkSize int
}

// ExtractionConfig holds RAG extraction parameters
type ExtractionConfig struct {
	TopK                int
	ConfidenceThreshold float64
}

// LLMConfig holds generation backend configuration
type LLMConfig struct {
	Model           string
	Temperature     float32
	MaxTokens       int
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
	Timeout         time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		VectorStore: VectorStoreConfig{
			Path:           getEnv("VECTOR_STORE_PATH", "./data/vectorstore"),
			Collection:     getEnv("VECTOR_STORE_COLLECTION", "property_documents"),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Chunking: ChunkingConfig{
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 800),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 100),
			MinChunkSize: getEnvAsInt("MIN_CHUNK_SIZE", 50),
		},
		Extraction: ExtractionConfig{
			TopK:                getEnvAsInt("TOP_K_RETRIEVAL", 5),
			ConfidenceThreshold: getEnvAsFloat64("CONFIDENCE_THRESHOLD", 0.5),
		},
		LLM: LLMConfig{
			Model:           getEnv("LLM_MODEL", "gpt-4o-mini"),
			Temperature:     getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			MaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 1000),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			Timeout:         getEnvAsDuration("LLM_TIMEOUT", 45*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration before any processing runs.
func (c *Config) Validate() error {
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return ConfigError("CHUNK_OVERLAP (%d) must be less than CHUNK_SIZE (%d)",
			c.Chunking.ChunkOverlap, c.Chunking.ChunkSize)
	}
	if c.Chunking.MinChunkSize > c.Chunking.ChunkSize {
		return ConfigError("MIN_CHUNK_SIZE (%d) must not exceed CHUNK_SIZE (%d)",
			c.Chunking.MinChunkSize, c.Chunking.ChunkSize)
	}
	if c.Extraction.TopK < 1 {
		return ConfigError("TOP_K_RETRIEVAL must be at least 1, got %d", c.Extraction.TopK)
	}
	if c.Extraction.ConfidenceThreshold < 0 || c.Extraction.ConfidenceThreshold > 1 {
		return ConfigError("CONFIDENCE_THRESHOLD must be in [0,1], got %v", c.Extraction.ConfidenceThreshold)
	}
	if c.LLM.OpenAIAPIKey == "" && c.LLM.AnthropicAPIKey == "" && c.LLM.GeminiAPIKey == "" {
		return ConfigError("at least one of OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY is required")
	}
	return nil
}
