package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	LookupDuckDuckGo = "duckduckgo"
	LookupGemini     = "gemini"
)

type Config struct {
	// Server
	Port string

	// Sessions
	SessionSecret  string
	SessionIdleTTL time.Duration
	SessionToken   time.Duration

	// Redis (optional: lookup cache and update fan-out)
	RedisURL string

	// Lookup
	LookupProvider       string
	LookupURL            string
	LookupTimeout        time.Duration
	LookupRequestsPerSec int
	LookupCacheTTL       time.Duration

	// Gemini AI
	GeminiAPIKey string
	GeminiModel  string

	// Limits
	MaxUploadBytes    int64
	ChatRatePerMinute int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		SessionSecret:        mustGetEnv("SESSION_SECRET"),
		SessionIdleTTL:       time.Duration(getEnvAsIntOrDefault("SESSION_IDLE_TTL_MIN", 120)) * time.Minute,
		SessionToken:         time.Duration(getEnvAsIntOrDefault("SESSION_TOKEN_TTL_MIN", 720)) * time.Minute,
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		LookupProvider:       strings.ToLower(getEnvOrDefault("LOOKUP_PROVIDER", LookupDuckDuckGo)),
		LookupURL:            getEnvOrDefault("LOOKUP_URL", "https://api.duckduckgo.com/"),
		LookupRequestsPerSec: getEnvAsIntOrDefault("LOOKUP_REQUESTS_PER_SEC", 5),
		LookupCacheTTL:       time.Duration(getEnvAsIntOrDefault("LOOKUP_CACHE_TTL_MIN", 60)) * time.Minute,
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		MaxUploadBytes:       int64(getEnvAsIntOrDefault("MAX_UPLOAD_MB", 20)) * 1024 * 1024,
		ChatRatePerMinute:    getEnvAsIntOrDefault("CHAT_RATE_LIMIT_PER_MIN", 30),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	// A model call takes seconds where the instant answer API takes milliseconds.
	timeoutMS := 1000
	switch cfg.LookupProvider {
	case LookupGemini:
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
		timeoutMS = 10000
	case LookupDuckDuckGo:
	default:
		panic(fmt.Sprintf("unknown LOOKUP_PROVIDER %q", cfg.LookupProvider))
	}
	cfg.LookupTimeout = time.Duration(getEnvAsIntOrDefault("LOOKUP_TIMEOUT_MS", timeoutMS)) * time.Millisecond

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
