// Package config provides centralized configuration management for fxdesk.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is layered from the following sources, later ones winning:
//
//	1. Default values (Default)
//	2. A YAML file (FXDESK_CONFIG_FILE, or config.yaml / configs/config.yaml)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern FXDESK_<SECTION>_<FIELD>:
//
//	FXDESK_SERVER_PORT=8080
//	FXDESK_STORAGE_DATABASE_PATH=/var/lib/fxdesk/fxdesk.db
//	FXDESK_CALENDAR_HOLIDAYS_FILE=/etc/fxdesk/holidays.yaml
//	FXDESK_MARKET_RATE_SOURCE=infomax
//	FXDESK_LOGGING_LEVEL=debug
//
// # Validation
//
// All configuration is validated at load time. Invalid ports, non-positive
// timeouts, unknown exporters and negative spreads are rejected.
//
// # Testing
//
// Tests should start from Default() and override only the fields they need.
package config
