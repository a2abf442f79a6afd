package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Service configuration
	ServicePort       string
	ServiceName       string
	FolderPrefix      string
	MaxPhotoCount     int
	MaxFileSizeMB     int
	RemoteTimeoutSec  int
	ExposeErrorDetail bool

	// MinIO configuration
	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOBucketName string
	MinIOUseSSL     bool

	// Redis configuration (folder cache; empty host disables it)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// SMTP configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailTo       string

	// Jaeger configuration
	JaegerEndpoint string
}

// LoadConfig loads configuration from environment variables with sensible defaults
func LoadConfig() (*Config, error) {
	config := &Config{
		// Service defaults
		ServicePort:       getEnv("SERVICE_PORT", "3000"),
		ServiceName:       getEnv("SERVICE_NAME", "fotokutu"),
		FolderPrefix:      getEnv("FOLDER_PREFIX", "Dugun"),
		MaxPhotoCount:     getEnvAsInt("MAX_PHOTO_COUNT", 10),
		MaxFileSizeMB:     getEnvAsInt("MAX_FILE_SIZE_MB", 10),
		RemoteTimeoutSec:  getEnvAsInt("REMOTE_TIMEOUT_SECONDS", 30),
		ExposeErrorDetail: getEnvAsBool("EXPOSE_ERROR_DETAIL", true),

		// MinIO defaults
		MinIOEndpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucketName: getEnv("MINIO_BUCKET_NAME", "fotokutu"),
		MinIOUseSSL:     getEnvAsBool("MINIO_USE_SSL", false),

		// Redis defaults
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// SMTP defaults
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", ""),
		MailTo:       getEnv("MAIL_TO", ""),

		// Jaeger defaults
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "localhost:4318"),
	}

	if config.MaxPhotoCount < 1 {
		return nil, fmt.Errorf("MAX_PHOTO_COUNT must be at least 1, got %d", config.MaxPhotoCount)
	}
	if config.MaxFileSizeMB < 1 {
		return nil, fmt.Errorf("MAX_FILE_SIZE_MB must be at least 1, got %d", config.MaxFileSizeMB)
	}

	return config, nil
}

// GetRedisAddr returns the Redis address, or "" when the cache is disabled
func (c *Config) GetRedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// GetMaxFileSizeBytes returns the per-file size ceiling in bytes
func (c *Config) GetMaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// GetRemoteTimeout returns the per-call timeout for outbound requests
func (c *Config) GetRemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSec) * time.Second
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
