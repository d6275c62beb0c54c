package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the gateway.
type Config struct {
	HTTPPort      string
	JWTSecret     []byte
	EncryptionKey string // base64-encoded 32-byte key for credential blobs

	Gemini   GeminiConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Usage    UsageConfig
	Queue    QueueConfig
	CallLog  CallLogConfig
}

// GeminiConfig holds settings for the generation endpoint.
type GeminiConfig struct {
	APIKey         string
	BaseURL        string
	TextModel      string
	ImageModel     string
	RequestTimeout time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds settings for the optional call-audit database.
// An empty URL disables the audit log.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// CacheConfig holds cache settings
type CacheConfig struct {
	CredentialCacheSize int
	CredentialCacheTTL  time.Duration
	ProjectCacheSize    int
	ProjectCacheTTL     time.Duration
}

// UsageConfig holds usage meter settings.
type UsageConfig struct {
	Limit int // quota ceiling for the call counter
}

// QueueConfig selects the backing for the call-audit queue: "redis"
// (persistent, shared across workers) or "memory" for standalone
// single-process deployments.
type QueueConfig struct {
	Backend string
}

// CallLogConfig holds configuration for the JSONL call logger.
type CallLogConfig struct {
	Enabled          bool
	FilePathTemplate string
	MaxSize          int64
	MaxFiles         int
	BufferSize       int
	FlushInterval    time.Duration
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getEnvInt64(key string, defaultValue int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	cfg := &Config{
		HTTPPort:      getEnvString("HTTP_PORT", "8080"),
		JWTSecret:     []byte(getEnvString("JWT_SECRET", "supersecretkey")),
		EncryptionKey: os.Getenv("ENCRYPTION_KEY"),
		Gemini: GeminiConfig{
			APIKey:         geminiKey,
			BaseURL:        getEnvString("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			TextModel:      getEnvString("GEMINI_TEXT_MODEL", "gemini-3-flash-preview"),
			ImageModel:     getEnvString("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
			RequestTimeout: getEnvDuration("GEMINI_REQUEST_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Address:      getEnvString("REDIS_ADDRESS", "localhost:6379"),
			Password:     getEnvString("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Cache: CacheConfig{
			CredentialCacheSize: getEnvInt("CACHE_CREDENTIAL_SIZE", 500),
			CredentialCacheTTL:  getEnvDuration("CACHE_CREDENTIAL_TTL", 5*time.Minute),
			ProjectCacheSize:    getEnvInt("CACHE_PROJECT_SIZE", 100),
			ProjectCacheTTL:     getEnvDuration("CACHE_PROJECT_TTL", 1*time.Minute),
		},
		Usage: UsageConfig{
			Limit: getEnvInt("USAGE_LIMIT", 1500),
		},
		Queue: QueueConfig{
			Backend: getEnvString("CALL_QUEUE_BACKEND", "redis"),
		},
		CallLog: CallLogConfig{
			Enabled:          getEnvString("CALL_LOG_ENABLED", "true") == "true",
			FilePathTemplate: getEnvString("CALL_LOG_FILE_PATH_TEMPLATE", "/var/log/seomaster/calls-%s.jsonl"),
			MaxSize:          getEnvInt64("CALL_LOG_MAX_SIZE", 10_485_760), // default 10 MB
			MaxFiles:         getEnvInt("CALL_LOG_MAX_FILES", 5),
			BufferSize:       getEnvInt("CALL_LOG_BUFFER_SIZE", 100),
			FlushInterval:    getEnvDuration("CALL_LOG_FLUSH_INTERVAL", 60*time.Second),
		},
	}

	return cfg, nil
}
