package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "PORTAL_"

// parseEnv overlays cfg with PORTAL_* variables.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		return lookup(envPrefix + key)
	}

	if v, ok := get("API_BASE_URL"); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := get("DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}

	for key, dst := range map[string]*int{
		"PAGE_SIZE":    &cfg.PageSize,
		"SEARCH_LIMIT": &cfg.SearchLimit,
	} {
		v, ok := get(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
	}

	for key, dst := range map[string]*time.Duration{
		"SUGGEST_DEBOUNCE": &cfg.SuggestDebounce,
		"TIMEOUT_AUTH":     &cfg.Timeouts.Auth,
		"TIMEOUT_SESSION":  &cfg.Timeouts.Session,
		"TIMEOUT_LOGOUT":   &cfg.Timeouts.Logout,
		"TIMEOUT_REQUEST":  &cfg.Timeouts.Request,
	} {
		v, ok := get(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = d
	}
	return nil
}
