package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FRANCK359/smart-search-ai/internal/timex"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig is a DTO used only for decoding. Pointer fields tell a key that
// is absent from one that is set to its zero value.
type fileConfig struct {
	APIBaseURL      *string         `json:"api_base_url" toml:"api_base_url"`
	DataDir         *string         `json:"data_dir" toml:"data_dir"`
	LogFormat       *string         `json:"log_format" toml:"log_format"`
	LogLevel        *string         `json:"log_level" toml:"log_level"`
	SuggestDebounce *timex.Duration `json:"suggest_debounce" toml:"suggest_debounce"`
	PageSize        *int            `json:"page_size" toml:"page_size"`
	SearchLimit     *int            `json:"search_limit" toml:"search_limit"`
	Timeouts        *struct {
		Auth    *timex.Duration `json:"auth" toml:"auth"`
		Session *timex.Duration `json:"session" toml:"session"`
		Logout  *timex.Duration `json:"logout" toml:"logout"`
		Request *timex.Duration `json:"request" toml:"request"`
	} `json:"timeouts" toml:"timeouts"`
}

// parseFile overlays cfg with the keys present in path.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogLevel, fc.LogLevel)
	setDuration(&cfg.SuggestDebounce, fc.SuggestDebounce)
	if fc.PageSize != nil {
		cfg.PageSize = *fc.PageSize
	}
	if fc.SearchLimit != nil {
		cfg.SearchLimit = *fc.SearchLimit
	}
	if t := fc.Timeouts; t != nil {
		setDuration(&cfg.Timeouts.Auth, t.Auth)
		setDuration(&cfg.Timeouts.Session, t.Session)
		setDuration(&cfg.Timeouts.Logout, t.Logout)
		setDuration(&cfg.Timeouts.Request, t.Request)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
