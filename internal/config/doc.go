// Package config provides loading and environment overlay for the
// event-analytics service configuration. It exposes a Default() baseline,
// JSON file loading, and an ANALYTICS_* environment overlay.
//
// Example:
//
//	config.LoadEnvFile()
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/event-analytics.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { /* abort startup */ }
package config
