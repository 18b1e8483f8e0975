package devserver

import (
	"flag"
	"io"
	"strings"

	"github.com/FRANCK359/smart-search-ai/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-a string        bind address (e.g. "127.0.0.1:8080")
//	-s string        token signing secret
//	-t duration      token lifetime (e.g. "30m", "24h")
//	-admin string    comma-separated admin emails
//	-origins string  comma-separated CORS origins
//	-log-format string
//	-log-level string
//
// Only these flags are considered; -c/-config is handled by parseJSON.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-admin", "-origins", "-log-format", "-log-level"})

	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to listen on")
	fs.StringVar(&config.Secret, "s", config.Secret, "token signing secret")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "access token lifetime")
	admins := fs.String("admin", strings.Join(config.AdminEmails, ","), "comma-separated admin emails")
	origins := fs.String("origins", strings.Join(config.AllowedOrigins, ","), "comma-separated CORS origins")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format: text, json or console")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.AdminEmails = splitList(*admins)
	config.AllowedOrigins = splitList(*origins)
	return nil
}
