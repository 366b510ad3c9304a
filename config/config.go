package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	// Telegram bot
	BotToken       string
	ResultsPerPage int // inline keyboard rows per search page
	DownloadConc   int // max concurrent media downloads, 0 = unlimited

	// External catalog API
	CatalogAPIURL  string
	CatalogToken   string
	CatalogTimeout time.Duration

	// Recognition API
	RecognizeAPIURL  string
	RecognizeToken   string
	RecognizeTimeout time.Duration

	// Media download
	DownloadTimeout time.Duration

	// Result cache
	CacheBackend    string // "memory" or "redis"
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MinIO media cache (optional)
	MinioEnabled   bool
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Admin HTTP server
	AdminAddr string

	// Logging
	LogLevel string
	LogFile  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvSeconds reads an environment variable holding a number of seconds.
func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	return &Config{
		BotToken:       os.Getenv("BOT_TOKEN"), // required, validated at startup
		ResultsPerPage: getEnvInt("RESULTS_PER_PAGE", 6),
		DownloadConc:   getEnvInt("DOWNLOAD_CONCURRENCY", 4),

		CatalogAPIURL:  getEnv("CATALOG_API_URL", "http://127.0.0.1:3000"),
		CatalogToken:   os.Getenv("CATALOG_TOKEN"),
		CatalogTimeout: getEnvSeconds("CATALOG_TIMEOUT", 15),

		RecognizeAPIURL:  getEnv("RECOGNIZE_API_URL", "https://api.audd.io"),
		RecognizeToken:   os.Getenv("RECOGNIZE_API_TOKEN"),
		RecognizeTimeout: getEnvSeconds("RECOGNIZE_TIMEOUT", 30),

		DownloadTimeout: getEnvSeconds("DOWNLOAD_TIMEOUT", 60),

		CacheBackend:    getEnv("RESULT_CACHE_BACKEND", "memory"),
		CacheTTL:        getEnvSeconds("RESULT_CACHE_TTL", 24*3600),
		CacheMaxEntries: getEnvInt("RESULT_CACHE_MAX", 10000),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // no hardcoded default for passwords
		DBName:     getEnv("DB_NAME", "muzbot"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEnabled:   getEnvBool("MINIO_ENABLED", false),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "muzbot-media"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		AdminAddr: getEnv("ADMIN_ADDR", ":8080"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}
