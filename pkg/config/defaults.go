// Package config provides centralized default values for bannerstack, overridable
// through the environment or a .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

// loadEnvFile applies .env without overriding variables already set in the environment.
func loadEnvFile() {
	envLoaded.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Failed to load .env: %v", err)
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

// getEnvSecret is getEnvString without echoing the value.
func getEnvSecret(key string) string {
	val := os.Getenv(key)
	if val != "" {
		log.Printf("Config override: %s=****", key)
	}
	return val
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	log.Printf("Config override: %s=%s", key, strings.Join(out, ","))
	return out
}

var (
	// Server Configuration
	Port               string
	GinMode            string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	CORSAllowedOrigins []string

	// Logging
	LogLevel     string
	LogToFile    bool
	LogDirectory string

	// Database
	DBDriver                 string // sqlite3 or libsql
	SQLitePath               string
	TursoDatabaseURL         string
	TursoAuthToken           string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration
	SeedDemoProducts         bool

	// Admin auth
	JWTSecret string
	JWTIssuer string

	// Storefront cache
	BannerCacheTTL       time.Duration
	CacheCleanupInterval time.Duration
	CacheCleanupVerbose  bool

	// Media
	MediaDirectory   string
	MediaURLPrefix   string
	MaxUploadBytes   int64
	MaxImageWidthPx  int
	WebPQuality      int
	ProductPageLimit int

	// Editor sessions
	EditorWriteTimeout time.Duration
	EditorPongTimeout  time.Duration
	EditorPingInterval time.Duration
	EditorMaxMessage   int64
	EditorTicketTTL    time.Duration
	EditorPresenceTick time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	GinMode = getEnvString("GIN_MODE", "release")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:4321", "http://localhost:5173"})

	// Logging
	LogLevel = getEnvString("LOG_LEVEL", "INFO")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	SQLitePath = getEnvString("SQLITE_PATH", "bannerstack.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvSecret("TURSO_AUTH_TOKEN")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = time.Duration(getEnvInt("SLOW_QUERY_THRESHOLD_MS", 500)) * time.Millisecond
	SeedDemoProducts = getEnvBool("SEED_DEMO_PRODUCTS", false)

	// Admin auth
	JWTSecret = getEnvSecret("JWT_SECRET")
	JWTIssuer = getEnvString("JWT_ISSUER", "")

	// Storefront cache
	BannerCacheTTL = time.Duration(getEnvInt("BANNER_CACHE_TTL_MINUTES", 10)) * time.Minute
	CacheCleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 15)) * time.Minute
	CacheCleanupVerbose = getEnvBool("CACHE_CLEANUP_VERBOSE", false)

	// Media
	MediaDirectory = getEnvString("MEDIA_DIRECTORY", "media")
	MediaURLPrefix = getEnvString("MEDIA_URL_PREFIX", "/media")
	MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_MB", 25)) << 20
	MaxImageWidthPx = getEnvInt("MAX_IMAGE_WIDTH_PX", 2400)
	WebPQuality = getEnvInt("WEBP_QUALITY", 82)
	ProductPageLimit = getEnvInt("PRODUCT_SEARCH_LIMIT", 20)

	// Editor sessions
	EditorWriteTimeout = getEnvDuration("EDITOR_WRITE_TIMEOUT", 10*time.Second)
	EditorPongTimeout = getEnvDuration("EDITOR_PONG_TIMEOUT", 60*time.Second)
	EditorPingInterval = getEnvDuration("EDITOR_PING_INTERVAL", 50*time.Second)
	EditorMaxMessage = int64(getEnvInt("EDITOR_MAX_MESSAGE_KB", 512)) << 10
	EditorTicketTTL = getEnvDuration("EDITOR_TICKET_TTL", 2*time.Minute)
	EditorPresenceTick = getEnvDuration("EDITOR_PRESENCE_INTERVAL", 20*time.Second)
}
