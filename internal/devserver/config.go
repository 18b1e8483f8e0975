// Package devserver runs the reference portal API as a standalone process
// for local development and manual testing of the terminal client.
package devserver

import (
	"errors"
	"strings"
	"time"
)

// Config holds runtime settings for the development server.
//
// Fields:
//   - Addr: HTTP bind address.
//   - Secret: HMAC secret for signing access tokens. Never reuse the default outside development.
//   - TokenTTL: lifetime written into the exp claim.
//   - AdminEmails: accounts registered with these emails get the admin flag.
//   - AllowedOrigins: CORS origins for browser front ends.
//   - ShutdownTimeout: grace period for in-flight requests on SIGINT/SIGTERM.
type Config struct {
	Addr            string
	Secret          string
	TokenTTL        time.Duration
	AdminEmails     []string
	AllowedOrigins  []string
	LogFormat       string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:8080"
	c.Secret = "dev-secret-change-me"
	c.TokenTTL = 24 * time.Hour
	c.AdminEmails = []string{"admin@example.com"}
	c.AllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	c.LogFormat = "text"
	c.LogLevel = "info"
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig applies defaults, then the optional JSON file named by -c/-config,
// then the remaining command-line flags. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.Secret == "" {
		errs = append(errs, errors.New("secret must not be empty"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
