package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(Overrides{}, noEnv)
	require.NoError(t, err)

	if diff := cmp.Diff(defaults(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_JSONFile(t *testing.T) {
	p := writeFile(t, "portal.json", `{
		"api_base_url": "https://portal.example.com/api",
		"page_size": 25,
		"suggest_debounce": "150ms",
		"timeouts": {"auth": 1000000000, "logout": "500ms"}
	}`)

	cfg, err := LoadConfig(Overrides{ConfigFile: p}, noEnv)
	require.NoError(t, err)

	want := defaults()
	want.APIBaseURL = "https://portal.example.com/api"
	want.PageSize = 25
	want.SuggestDebounce = 150 * time.Millisecond
	want.Timeouts.Auth = time.Second
	want.Timeouts.Logout = 500 * time.Millisecond

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_TOMLFile(t *testing.T) {
	p := writeFile(t, "portal.toml", `
api_base_url = "http://localhost:9000/api"
log_format = "json"
search_limit = 20

[timeouts]
request = "8s"
`)

	cfg, err := LoadConfig(Overrides{ConfigFile: p}, noEnv)
	require.NoError(t, err)

	want := defaults()
	want.APIBaseURL = "http://localhost:9000/api"
	want.LogFormat = "json"
	want.SearchLimit = 20
	want.Timeouts.Request = 8 * time.Second

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	p := writeFile(t, "portal.json", `{"api_base_url": "http://file:1/api", "data_dir": "from-file", "log_level": "debug"}`)
	env := envMap(map[string]string{
		"PORTAL_API_BASE_URL":    "http://env:2/api",
		"PORTAL_DATA_DIR":        "from-env",
		"PORTAL_TIMEOUT_SESSION": "7s",
	})

	cfg, err := LoadConfig(Overrides{ConfigFile: p, APIBaseURL: "http://flag:3/api"}, env)
	require.NoError(t, err)

	assert.Equal(t, "http://flag:3/api", cfg.APIBaseURL)
	assert.Equal(t, "from-env", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 7*time.Second, cfg.Timeouts.Session)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		o    Overrides
		env  map[string]string
		file string
	}{
		{name: "missing file", o: Overrides{ConfigFile: filepath.Join(t.TempDir(), "nope.json")}},
		{name: "bad json", file: `{"page_size": "many"}`},
		{name: "bad env int", env: map[string]string{"PORTAL_PAGE_SIZE": "ten"}},
		{name: "bad env duration", env: map[string]string{"PORTAL_TIMEOUT_AUTH": "soon"}},
		{name: "relative url", o: Overrides{APIBaseURL: "/api"}},
		{name: "zero page size", env: map[string]string{"PORTAL_PAGE_SIZE": "0"}},
		{name: "negative timeout", env: map[string]string{"PORTAL_TIMEOUT_LOGOUT": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.o
			if tt.file != "" {
				o.ConfigFile = writeFile(t, "portal.json", tt.file)
			}
			_, err := LoadConfig(o, envMap(tt.env))
			assert.Error(t, err)
		})
	}
}
