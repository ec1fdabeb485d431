package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnvFile overlays variables from a .env file into the process
// environment, if one exists. Missing files are not an error.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// FromEnv overlays ANALYTICS_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("ANALYTICS_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("ANALYTICS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ANALYTICS_STORAGE_ROOT"); v != "" {
		cfg.StorageRoot = v
	}
	if v := os.Getenv("ANALYTICS_QUEUE_NAME"); v != "" {
		cfg.QueueName = v
	}
	if v := os.Getenv("ANALYTICS_CONSUMER_GROUP"); v != "" {
		cfg.ConsumerGroup = v
	}
	if v := os.Getenv("ANALYTICS_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BatchSize = n
		}
	}
	if v := os.Getenv("ANALYTICS_MAX_WAIT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxWaitMs = n
		}
	}
	if v := os.Getenv("ANALYTICS_LEASE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LeaseMs = n
		}
	}
	if v := os.Getenv("ANALYTICS_BACKOFF_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BackoffMs = n
		}
	}
	if v := os.Getenv("ANALYTICS_BUCKET_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BucketTTLSeconds = n
		}
	}
}
