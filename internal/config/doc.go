// Package config provides centralized configuration management for the eegviz tools.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern EEGVIZ_* for namespacing:
//
//	EEGVIZ_VIEWER_PORT=8765
//	EEGVIZ_LOGGING_LEVEL=info
//	EEGVIZ_EXPORT_PNG_SCALE=2
//	EEGVIZ_EXPORT_DISABLE_STATIC=true
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	recording := paths.GetRecordingPath("session_01.csv")
//	logFile := paths.GetLogPath("eegviz.log")
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
