package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents worker configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	StoragePath string
	BriefPath   string

	Concurrency      int64
	GenerateTimeout  time.Duration
	EvaluateTimeout  time.Duration
	ReadTimeout      time.Duration
	GenerateInterval time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		StoragePath: getEnv("STORAGE_PATH", "./storage"),
		BriefPath:   getEnv("BRIEF_PATH", "./brief.json"),

		Concurrency:      int64(getEnvInt("CONCEPT_CONCURRENCY", 2)),
		GenerateTimeout:  time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 90)),
		EvaluateTimeout:  time.Second * time.Duration(getEnvInt("EVALUATE_TIMEOUT_SECONDS", 30)),
		ReadTimeout:      time.Second * time.Duration(getEnvInt("TEXT_READ_TIMEOUT_SECONDS", 30)),
		GenerateInterval: time.Second * time.Duration(getEnvInt("GENERATE_INTERVAL_SECONDS", 6)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
