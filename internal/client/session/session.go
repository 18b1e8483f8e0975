package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

var (
	ErrEmptyToken     = errors.New("empty token")
	ErrMalformedToken = errors.New("malformed token")
	ErrExpiredToken   = errors.New("token expired")
)

// Session is safe for concurrent use. The token it reports is never expired:
// an expired or malformed token reads as absent.
type Session struct {
	mu     sync.Mutex
	store  TokenStore
	log    logging.Logger
	now    func() time.Time
	token  string
	expiry time.Time
	user   *models.User

	subs   map[int]func(ctx context.Context)
	nextID int
}

type Option func(*Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New loads the persisted token. A persisted token that is already expired
// or cannot be decoded is cleared from the store.
func New(ctx context.Context, store TokenStore, opts ...Option) (*Session, error) {
	s := &Session{
		store: store,
		log:   logging.Nop(),
		now:   time.Now,
		subs:  map[int]func(context.Context){},
	}
	for _, o := range opts {
		o(s)
	}

	token, err := store.LoadToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return s, nil
	}

	exp, ok := decodeExpiry(token)
	if !ok || s.expired(exp) {
		s.log.Info(ctx, "discarding persisted token", "malformed", !ok)
		if err := store.ClearToken(ctx); err != nil {
			s.log.Warn(ctx, "clear persisted token", "err", err)
		}
		return s, nil
	}

	s.token = token
	s.expiry = exp
	return s, nil
}

func (s *Session) expired(exp time.Time) bool {
	return !exp.IsZero() && !s.now().Before(exp)
}

// Begin persists token and holds user. A token that is malformed or
// already expired is rejected and the session stays as it was. When a
// token is already held, the old session is torn down first so that no
// dependent state carries over to the new user.
func (s *Session) Begin(ctx context.Context, token string, user models.User) error {
	if token == "" {
		return ErrEmptyToken
	}
	exp, ok := decodeExpiry(token)
	if !ok {
		return fmt.Errorf("begin session: %w", ErrMalformedToken)
	}
	if s.expired(exp) {
		return fmt.Errorf("begin session: %w", ErrExpiredToken)
	}
	if s.HasToken() {
		s.teardown(ctx)
	}
	if err := s.store.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.expiry = exp
	s.user = user.Clone()
	s.mu.Unlock()
	return nil
}

// Token returns the bearer token, or "" when absent or expired.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.expired(s.expiry) {
		return ""
	}
	return s.token
}

// HasToken reports whether any token is held, expired or not.
func (s *Session) HasToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Valid reports whether a non-expired token is held.
func (s *Session) Valid() bool {
	return s.Token() != ""
}

// Expiry returns the decoded exp claim; zero means no expiry.
func (s *Session) Expiry() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiry
}

// User returns a copy of the held user, or nil.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// SetUser replaces the held user. It is a no-op without a token.
func (s *Session) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return
	}
	s.user = u.Clone()
}

// IsAdmin reports whether the held user has the admin flag.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin
}

// Subscribe registers fn to run on Destroy. The returned func unregisters
// it and may be called any number of times.
func (s *Session) Subscribe(fn func(ctx context.Context)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Destroy clears the in-memory session, runs the subscribers, and then
// clears the persisted token. Memory is cleared even when the store fails;
// the store error is returned for information only.
func (s *Session) Destroy(ctx context.Context) error {
	s.teardown(ctx)

	if err := s.store.ClearToken(ctx); err != nil {
		s.log.Warn(ctx, "clear persisted token", "err", err)
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// teardown clears the in-memory session and runs the subscribers.
func (s *Session) teardown(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.expiry = time.Time{}
	s.user = nil
	subs := make([]func(context.Context), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ctx)
	}
}
