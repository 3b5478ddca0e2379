package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string

	// Ollama collaborators
	OllamaURL  string
	ChatModel  string
	EmbedModel string
	EmbedDims  int

	// Advice index
	IndexPath string

	// Coach tuning. The rewrite-similarity threshold and minimum-length
	// exemption are heuristics, so they stay configurable.
	HistoryWindow     int
	RewriteThreshold  float64
	RewriteMinChars   int
	RetrievalMinScore float64

	// Collaborator call timeouts and retry tuning
	RetrievalTimeout time.Duration
	GenerateTimeout  time.Duration
	GenerateRetries  int
	RetryBackoff     time.Duration
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8000"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		TablePrefix: getTablePrefix(env),

		OllamaURL:  getEnv("OLLAMA_URL", "http://localhost:11434"),
		ChatModel:  getEnv("CHAT_MODEL", "phi3"),
		EmbedModel: getEnv("EMBED_MODEL", "mxbai-embed-large"),
		EmbedDims:  getEnvInt("EMBED_DIMS", 1024),

		IndexPath: getEnv("INDEX_PATH", "data/advice.db"),

		HistoryWindow:     getEnvInt("HISTORY_WINDOW", 10),
		RewriteThreshold:  getEnvFloat("REWRITE_THRESHOLD", 0.5),
		RewriteMinChars:   getEnvInt("REWRITE_MIN_CHARS", 50),
		RetrievalMinScore: getEnvFloat("RETRIEVAL_MIN_SCORE", 0),

		RetrievalTimeout: getEnvDuration("RETRIEVAL_TIMEOUT", 10*time.Second),
		GenerateTimeout:  getEnvDuration("GENERATE_TIMEOUT", 120*time.Second),
		GenerateRetries:  getEnvInt("GENERATE_RETRIES", 2),
		RetryBackoff:     getEnvDuration("RETRY_BACKOFF", 500*time.Millisecond),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
