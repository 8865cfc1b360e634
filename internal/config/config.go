package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RedisAddr     string
	RedisPassword string

	OpenAIAPIKey string
	OpenAIModel  string

	CommerceAPIBase      string
	CommerceLoginBase    string
	CommerceClientID     string
	CommerceClientSecret string
	CommerceRedirectURL  string

	GenerationMaxInflight int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "specto"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "specto"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 4),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 16),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 1800),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		OpenAIAPIKey: strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
		OpenAIModel:  getenv("OPENAI_MODEL", "gpt-4o"),

		CommerceAPIBase:      getenv("COMMERCE_API_BASE", "https://api.squarespace.com/1.0"),
		CommerceLoginBase:    getenv("COMMERCE_LOGIN_BASE", "https://login.squarespace.com"),
		CommerceClientID:     strings.TrimSpace(getenv("COMMERCE_CLIENT_ID", "")),
		CommerceClientSecret: strings.TrimSpace(getenv("COMMERCE_CLIENT_SECRET", "")),
		CommerceRedirectURL:  getenv("COMMERCE_REDIRECT_URL", "http://localhost:8080/v1/oauth/callback"),

		GenerationMaxInflight: getenvInt("GENERATION_MAX_INFLIGHT", 8),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
