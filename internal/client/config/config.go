package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Timeouts bounds each class of API call.
type Timeouts struct {
	Auth    time.Duration
	Session time.Duration
	Logout  time.Duration
	Request time.Duration
}

// Config holds runtime settings for the portal CLI.
type Config struct {
	APIBaseURL      string
	DataDir         string
	LogFormat       string
	LogLevel        string
	SuggestDebounce time.Duration
	Timeouts        Timeouts
	PageSize        int
	SearchLimit     int
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.DataDir = ".smart-search"
	c.LogFormat = "console"
	c.LogLevel = "warn"
	c.SuggestDebounce = 300 * time.Millisecond
	c.Timeouts = Timeouts{
		Auth:    5 * time.Second,
		Session: 3 * time.Second,
		Logout:  2 * time.Second,
		Request: 5 * time.Second,
	}
	c.PageSize = 10
	c.SearchLimit = 10
}

// Overrides are the values given on the command line; empty fields are unset.
type Overrides struct {
	ConfigFile string
	APIBaseURL string
	DataDir    string
	LogFormat  string
	LogLevel   string
}

func (o Overrides) apply(c *Config) {
	if o.APIBaseURL != "" {
		c.APIBaseURL = o.APIBaseURL
	}
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// LoadConfig builds a Config from defaults, the optional file, the
// environment (read through lookup; nil means os.LookupEnv) and o.
func LoadConfig(o Overrides, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if o.ConfigFile != "" {
		if err := parseFile(cfg, o.ConfigFile); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	o.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_base_url %q: must be an absolute http(s) URL", c.APIBaseURL))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir: must not be empty"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page_size %d: must be positive", c.PageSize))
	}
	if c.SearchLimit <= 0 {
		errs = append(errs, fmt.Errorf("search_limit %d: must be positive", c.SearchLimit))
	}
	for name, d := range map[string]time.Duration{
		"suggest_debounce": c.SuggestDebounce,
		"timeouts.auth":    c.Timeouts.Auth,
		"timeouts.session": c.Timeouts.Session,
		"timeouts.logout":  c.Timeouts.Logout,
		"timeouts.request": c.Timeouts.Request,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s %s: must be positive", name, d))
		}
	}
	return errors.Join(errs...)
}
