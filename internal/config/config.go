package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries process-level settings, all sourced from the environment.
type Config struct {
	Port      string
	Mode      string // "debug" enables verbose logging
	MongoURI  string
	MongoDB   string
	RedisAddr string
	JWTSecret string

	Storage StorageConfig
	Session SessionConfig
}

// StorageConfig selects where captured media blobs go. With no MinIO
// endpoint configured, blobs land on the local filesystem.
type StorageConfig struct {
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	LocalPath      string
}

// SessionConfig tunes the answer-session engine.
type SessionConfig struct {
	// DraftQuietPeriod is the trailing-edge debounce window for draft saves.
	DraftQuietPeriod time.Duration
	// CaptureTimeout auto-finalizes a recording that is never stopped.
	CaptureTimeout time.Duration
}

// Load reads configuration from the environment with development defaults.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		Mode:      getEnv("APP_MODE", "debug"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "yeonseubpun"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		Storage: StorageConfig{
			MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:    getEnv("MINIO_BUCKET", "captures"),
			MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
			LocalPath:      getEnv("MEDIA_LOCAL_PATH", "data/captures"),
		},
		Session: SessionConfig{
			DraftQuietPeriod: getEnvDuration("DRAFT_QUIET_PERIOD", time.Second),
			CaptureTimeout:   getEnvDuration("CAPTURE_TIMEOUT", 10*time.Second),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
