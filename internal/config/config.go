package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level service configuration loaded from file/env.
type Config struct {
	// HTTPAddr is the ingestion/analytics listen address.
	HTTPAddr string `json:"httpAddr"`
	// DataDir holds the queue store; empty means DefaultDataDir().
	DataDir string `json:"dataDir"`
	// StorageRoot is the root of the hour-partitioned event archive; empty
	// means {DataDir}/persistent_events.
	StorageRoot string `json:"storageRoot"`
	// QueueName is the durable queue events are enqueued to.
	QueueName string `json:"queueName"`
	// ConsumerGroup identifies the drain loop's consumer group.
	ConsumerGroup string `json:"consumerGroup"`
	// BatchSize is the maximum entries claimed per drain cycle.
	BatchSize int `json:"batchSize"`
	// MaxWaitMs bounds how long a claim blocks waiting for entries.
	MaxWaitMs int `json:"maxWaitMs"`
	// LeaseMs is how long a claimed entry stays invisible before redelivery.
	LeaseMs int `json:"leaseMs"`
	// BackoffMs is the sleep after a failed drain cycle.
	BackoffMs int `json:"backoffMs"`
	// BucketTTLSeconds is the minute-bucket expiry window.
	BucketTTLSeconds int `json:"bucketTtlSeconds"`
}

// Default returns built-in defaults for the pipeline tunables.
func Default() Config {
	return Config{
		HTTPAddr:         ":8080",
		QueueName:        "events_stream",
		ConsumerGroup:    "persistent_processors",
		BatchSize:        1000,
		MaxWaitMs:        5000,
		LeaseMs:          30_000,
		BackoffMs:        1000,
		BucketTTLSeconds: 300,
	}
}

// Load reads configuration from a JSON file. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.QueueName == "" {
		return fmt.Errorf("config: queueName is required")
	}
	if c.ConsumerGroup == "" {
		return fmt.Errorf("config: consumerGroup is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: batchSize must be positive")
	}
	if c.MaxWaitMs <= 0 {
		return fmt.Errorf("config: maxWaitMs must be positive")
	}
	// Redelivery requires that claimed entries stay leased at least as long
	// as a drain cycle could take.
	if c.LeaseMs < 5000 {
		return fmt.Errorf("config: leaseMs must be at least 5000")
	}
	if c.BucketTTLSeconds <= 0 {
		return fmt.Errorf("config: bucketTtlSeconds must be positive")
	}
	return nil
}
