// Package config loads runtime configuration for the portal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional file selected with -c/--config: JSON, or TOML when the name
//     ends in .toml.
//  3. PORTAL_* environment variables.
//  4. Command-line flags (see Overrides), which override earlier values.
//
// # File schema
//
// Durations use timex.Duration, so they may be strings like "3s" or, in
// JSON, integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080/api",
//	  "data_dir": ".smart-search",
//	  "log_format": "console",
//	  "log_level": "info",
//	  "suggest_debounce": "300ms",
//	  "page_size": 10,
//	  "search_limit": 10,
//	  "timeouts": {"auth": "5s", "session": "3s", "logout": "2s", "request": "5s"}
//	}
//
// # Environment
//
//	PORTAL_API_BASE_URL  PORTAL_DATA_DIR  PORTAL_LOG_FORMAT  PORTAL_LOG_LEVEL
//	PORTAL_SUGGEST_DEBOUNCE  PORTAL_PAGE_SIZE  PORTAL_SEARCH_LIMIT
//	PORTAL_TIMEOUT_AUTH  PORTAL_TIMEOUT_SESSION  PORTAL_TIMEOUT_LOGOUT  PORTAL_TIMEOUT_REQUEST
package config
