package fakeportal

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/crypto/bcrypt"

	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

// Config tunes a Server. Zero fields take the defaults from DefaultConfig.
type Config struct {
	// Secret signs access tokens.
	Secret []byte
	// TokenTTL is the lifetime written into the exp claim.
	TokenTTL time.Duration
	// AdminEmails are granted the admin flag on registration.
	AdminEmails []string
	// AllowedOrigins for CORS.
	AllowedOrigins []string
	// BcryptCost for password hashes.
	BcryptCost int
	// OnPasswordReset receives reset tokens, standing in for the mail outbox.
	OnPasswordReset func(email, token string)
	// Now is the clock used for token expiry and timestamps.
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{
		Secret:         []byte("dev-secret-change-me"),
		TokenTTL:       24 * time.Hour,
		AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		BcryptCost:     bcrypt.DefaultCost,
		Now:            time.Now,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if len(c.Secret) == 0 {
		c.Secret = d.Secret
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = d.TokenTTL
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = d.AllowedOrigins
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = d.BcryptCost
	}
	if c.Now == nil {
		c.Now = d.Now
	}
	return c
}

// Server holds the in-memory portal state.
type Server struct {
	cfg    Config
	log    logging.Logger
	db     *memStore
	admins map[string]bool
}

func New(cfg Config, log logging.Logger) *Server {
	cfg = cfg.withDefaults()
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		admins[normalizeEmail(e)] = true
	}
	return &Server{
		cfg:    cfg,
		log:    log.With("component", "fakeportal"),
		db:     newMemStore(),
		admins: admins,
	}
}

// Handler returns the router with every route mounted under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/register", s.register)
			r.Post("/logout", s.logout)
			r.Post("/request-password-reset", s.requestPasswordReset)
			r.Post("/reset-password", s.resetPassword)
			r.Get("/check-email", s.checkEmail)

			r.Group(func(r chi.Router) {
				r.Use(s.authenticated)
				r.Get("/me", s.me)
				r.Put("/me", s.updateMe)
				r.Post("/refresh-api-key", s.refreshAPIKey)
			})
		})

		r.Route("/search", func(r chi.Router) {
			r.With(s.identified).Post("/", s.search)
			r.With(s.identified).Get("/", s.newsFeed)
			r.Get("/suggest", s.suggest)

			r.Group(func(r chi.Router) {
				r.Use(s.authenticated)
				r.Get("/history", s.listHistory)
				r.Delete("/history", s.clearHistory)
				r.Get("/favorites", s.listFavorites)
				r.Post("/favorites", s.addFavorite)
				r.Delete("/favorites", s.removeFavorite)
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(s.authenticated)
			r.Get("/stats", s.stats)
			r.Get("/history/analytics", s.searchAnalytics)
			r.Get("/favorites/analytics", s.favoritesAnalytics)
			r.With(s.adminOnly).Get("/system/stats", s.systemStats)
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/send", s.sendContact)
			r.Group(func(r chi.Router) {
				r.Use(s.authenticated, s.adminOnly)
				r.Get("/messages", s.listMessages)
				r.Get("/messages/{id}", s.getMessage)
				r.Put("/messages/{id}", s.setMessageRead)
			})
		})
	})

	return r
}

// requestLogger logs one line per request through the portal logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := s.cfg.Now()
		next.ServeHTTP(ww, r)

		ctx := logging.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", s.cfg.Now().Sub(start).String(),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.log.Error(ctx, "request", args...)
			return
		}
		s.log.Info(ctx, "request", args...)
	})
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
