// Package log provides the structured logging facade for event-analytics.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Internally it is backed by Go's
// standard library slog via a bridge handler that routes records through our
// formatter/output pipeline, so third-party code logging through slog or the
// stdlib logger produces the same output shape as our own call sites.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("processor"))
//	l.Info("batch written", log.Int("events", 1000))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config (level and
// format strings, typically sourced from ANALYTICS_LOG_LEVEL and
// ANALYTICS_LOG_FORMAT). RedirectStdLog routes standard library logs (Pebble
// uses these) into a Logger.
//
// Loggers are passed explicitly by dependency injection; there is no
// package-level default.
package log
