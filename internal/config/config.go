package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port              int
	BackendURL        string // Base URL of the detection/review backend
	MaxImageDimension int    // Detector native input size (640 default, 1024 variant)
	JPEGQuality       int    // Re-encode quality for downsampled uploads
	PreprocessMaxSize int64  // Byte threshold below which images pass through unchanged
	ReferenceWidth    int    // Design width the overlay scaling is calibrated against
	ReviewPageSize    int    // Unreviewed items fetched per activation
	HealthInterval    int    // Seconds between backend liveness probes
	DatabasePath      string
	LogDirectory      string
	StaticDirectory   string
}

func Load() *Config {
	return &Config{
		Port:              getEnvAsInt("PORT", 8080),
		BackendURL:        getEnv("BACKEND_URL", "http://localhost:7860"),
		MaxImageDimension: getEnvAsInt("MAX_IMAGE_DIMENSION", 640),
		JPEGQuality:       getEnvAsInt("JPEG_QUALITY", 80),
		PreprocessMaxSize: getEnvAsInt64("PREPROCESS_MAX_SIZE", 1<<20),
		ReferenceWidth:    getEnvAsInt("REFERENCE_WIDTH", 1000),
		ReviewPageSize:    getEnvAsInt("REVIEW_PAGE_SIZE", 20),
		HealthInterval:    getEnvAsInt("HEALTH_INTERVAL", 30),
		DatabasePath:      getEnv("DB_PATH", filepath.Join(".", "data", "review.db")),
		LogDirectory:      getEnv("LOG_DIR", filepath.Join(".", "logs")),
		StaticDirectory:   getEnv("STATIC_DIR", filepath.Join(".", "static")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
