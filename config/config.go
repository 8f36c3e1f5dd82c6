package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	// Server
	Port        string
	GinMode     string
	CORSOrigins []string

	// Logging
	LogLevel  string
	LogFormat string

	// Storage
	StoreDriver  string
	MongoDBURI   string
	MongoDBName  string
	MongoTimeout int // seconds

	// Gemini AI (optional fallback coach)
	GeminiAPIKey string
	GeminiModel  string

	// Line OA (optional chat channel)
	LineChannelSecret      string
	LineChannelAccessToken string

	// Firebase Storage (optional export hosting)
	FirebaseCredentials   string
	FirebaseStorageBucket string
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                   getEnv("PORT", "4000"),
		GinMode:                getEnv("GIN_MODE", "debug"),
		CORSOrigins:            splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "text"),
		StoreDriver:            strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoDBURI:             getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBName:            getEnv("MONGODB_DB", "finmentor_dev"),
		MongoTimeout:           getEnvInt("MONGODB_TIMEOUT_SECONDS", 5),
		GeminiAPIKey:           getEnv("GEMINI_API_KEY", ""),
		GeminiModel:            getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		LineChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		FirebaseCredentials:    getEnv("FIREBASE_CREDENTIALS", ""),
		FirebaseStorageBucket:  getEnv("FIREBASE_STORAGE_BUCKET", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, c.StoreDriver)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.StoreDriver == StoreMongo && c.MongoDBURI == "" {
		return fmt.Errorf("MONGODB_URI is required when STORE_DRIVER=mongo")
	}
	if c.MongoTimeout <= 0 {
		return fmt.Errorf("MONGODB_TIMEOUT_SECONDS must be positive")
	}
	if (c.LineChannelSecret == "") != (c.LineChannelAccessToken == "") {
		return fmt.Errorf("LINE_CHANNEL_SECRET and LINE_CHANNEL_ACCESS_TOKEN must be set together")
	}
	if (c.FirebaseCredentials == "") != (c.FirebaseStorageBucket == "") {
		return fmt.Errorf("FIREBASE_CREDENTIALS and FIREBASE_STORAGE_BUCKET must be set together")
	}
	return nil
}

// HasGemini returns true if the generative fallback is configured
func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

// HasLine returns true if the LINE channel is configured
func (c *Config) HasLine() bool {
	return c.LineChannelSecret != "" && c.LineChannelAccessToken != ""
}

// HasFirebase returns true if Firebase Storage is configured
func (c *Config) HasFirebase() bool {
	return c.FirebaseCredentials != "" && c.FirebaseStorageBucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
