package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FRANCK359/smart-search-ai/internal/fakeportal"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

type App struct {
	config *Config
	logger logging.Logger
	portal *fakeportal.Server
}

func NewApp(c *Config, logger logging.Logger) *App {
	app := &App{config: c, logger: logger.With("module", "devserver")}

	app.portal = fakeportal.New(fakeportal.Config{
		Secret:          []byte(c.Secret),
		TokenTTL:        c.TokenTTL,
		AdminEmails:     c.AdminEmails,
		AllowedOrigins:  c.AllowedOrigins,
		OnPasswordReset: app.logResetToken,
	}, logger)

	return app
}

// There is no mail outbox, so reset tokens go to the log.
func (app *App) logResetToken(email, token string) {
	app.logger.Info(context.Background(), "password reset requested", "email", email, "token", token)
}

// Signal registration is a seam for testing.
var (
	notifySignals = signal.Notify
	stopSignals   = signal.Stop
)

// initSignalHandler cancels on a termination signal until ctx is done. The
// returned channel is closed once the handler has unregistered.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) <-chan struct{} {
	sigs := make(chan os.Signal, 1)
	notifySignals(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer stopSignals(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "shutting down", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
	return stopped
}

// Run listens on the configured address and serves until ctx is cancelled
// or the process receives a termination signal.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	stopped := app.initSignalHandler(ctx, cancelFunc)
	defer func() {
		cancelFunc()
		<-stopped
	}()

	ln, err := net.Listen("tcp", app.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.Addr, err)
	}

	return app.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln and shuts it down gracefully once ctx is done.
func (app *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           app.portal.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting portal API", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "Stopping portal API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
