package devserver

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/FRANCK359/smart-search-ai/internal/flagx"
	"github.com/FRANCK359/smart-search-ai/internal/timex"
)

// jsonConfig is the on-disk shape of the config file. Absent keys leave the
// current value untouched.
type jsonConfig struct {
	Addr            *string         `json:"addr"`
	Secret          *string         `json:"secret"`
	TokenTTL        *timex.Duration `json:"token_ttl"`
	AdminEmails     []string        `json:"admin_emails"`
	AllowedOrigins  []string        `json:"allowed_origins"`
	LogFormat       *string         `json:"log_format"`
	LogLevel        *string         `json:"log_level"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
}

func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.Addr != nil {
		config.Addr = *c.Addr
	}
	if c.Secret != nil {
		config.Secret = *c.Secret
	}
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.AdminEmails != nil {
		config.AdminEmails = c.AdminEmails
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.LogFormat != nil {
		config.LogFormat = *c.LogFormat
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}
