// Package logging provides structured logging for Plant Core.
//
// It wraps log/slog so every component logs the same way: JSON in
// production, text during development, with service and version attached
// to every entry.
//
// Configuration lives in the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("plant created", "plant_id", 42)
package logging
