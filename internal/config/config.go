package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	DatabaseURL     string
	SupabaseURL     string
	SupabaseJWKSURL string // SupabaseURL + /auth/v1/.well-known/jwks.json
	SupabaseKey     string // service role key, seed command only
	CORSOrigins     string
	TablePrefix     string
	AutoMigrate     bool

	// Cache (Redis when RedisAddr is set, in-process otherwise)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Notifications (Kafka publishing is enabled when brokers are set)
	KafkaBrokers []string
	KafkaTopic   string

	LogDir      string
	LogMaxFiles int

	DefaultPageSize int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		DatabaseURL:     getEnv("DATABASE_URL", getEnv("SUPABASE_DB_URL", "")),
		SupabaseURL:     supabaseURL,
		SupabaseJWKSURL: supabaseURL + "/auth/v1/.well-known/jwks.json",
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     getTablePrefix(env),
		AutoMigrate:     getEnv("AUTO_MIGRATE", getDefaultAutoMigrate(env)) == "true",

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "linkhive.events"),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),

		DefaultPageSize: clampPageSize(getEnvInt("DEFAULT_PAGE_SIZE", 20)),
	}
}

// getDefaultAutoMigrate applies the schema on boot outside production
func getDefaultAutoMigrate(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// TABLE_PREFIX wins, even when explicitly empty via "none"
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		if prefix == "none" {
			return ""
		}
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

func clampPageSize(n int) int {
	if n <= 0 {
		return 20
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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
		return defaultValue
	}
	return n
}
