package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	FrontendURL string
	LogFile     string
	// Storage backend: memory, sqlite, postgres or redis
	StoreDriver string
	DBUrl       string
	KVTable     string
	SQLitePath  string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Auth: when either is set, requests need a bearer token and its subject scopes storage
	AuthJWTSecret string
	AuthJWKSURL   string
	// Acquisition pacing (milliseconds)
	BatchDelayMs   int
	ProfileDelayMs int
	AvatarProbe    bool
	// Hosts avatars may be fetched from (https only)
	AvatarHosts []string
	// Accepted list
	SortLocale string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	RateLimitThreshold     int
	// Archive storage (S3 compatible)
	S3Provider        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win when both are present
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		LogFile:     getEnv("LOG_FILE", ""),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		DBUrl:       getEnv("DATABASE_URL", ""),
		KVTable:     getEnv("KV_TABLE", "kv_store"),
		SQLitePath:  getEnv("SQLITE_PATH", "scout.db"),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		AuthJWTSecret:        getEnv("AUTH_JWT_SECRET", ""),
		AuthJWKSURL:          getEnv("AUTH_JWKS_URL", ""),
		// Pacing defaults keep the directory's rate limiter quiet
		BatchDelayMs:   getEnvInt("BATCH_DELAY_MS", 5000),
		ProfileDelayMs: getEnvInt("PROFILE_DELAY_MS", 2000),
		AvatarProbe:    getEnvBool("AVATAR_PROBE", false),
		AvatarHosts:    getEnvList("AVATAR_HOSTS", []string{"avatars.githubusercontent.com"}),
		SortLocale:     getEnv("SORT_LOCALE", "en"),
		// Rate Limiting Configuration
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitThreshold:     getEnvInt("RATE_LIMIT_THRESHOLD", 30),
		// Archive storage
		S3Provider:        getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          getEnv("S3_REGION", ""),
		S3Bucket:          getEnv("S3_ARCHIVE_BUCKET", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
	}

	if cfg.StoreDriver == "postgres" && cfg.DBUrl == "" {
		log.Println("WARNING: STORE_DRIVER=postgres but DATABASE_URL is missing.")
	}
	if cfg.StoreDriver == "redis" && cfg.UpstashRedisURL == "" {
		log.Println("WARNING: STORE_DRIVER=redis but UPSTASH_REDIS_URL is missing.")
	}
	if cfg.AuthJWTSecret == "" && cfg.AuthJWKSURL == "" {
		log.Println("WARNING: AUTH_JWT_SECRET and AUTH_JWKS_URL not configured. All callers share the default scope.")
	}

	return cfg, nil
}

// ArchiveConfigured reports whether exports can be archived to object storage.
func (c *Config) ArchiveConfigured() bool {
	return c.S3Bucket != "" && c.S3Region != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList splits a comma-separated environment variable, or returns fallback if not set/empty
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
