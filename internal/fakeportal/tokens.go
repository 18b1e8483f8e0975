package fakeportal

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/common"
)

// Claims are the access token claims: the registered set plus the account id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// GenerateToken signs an HS256 token for userID that expires ttl after now.
func GenerateToken(userID string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(secret)
}

// ParseToken verifies tokenString against secret at the time given by now.
// An expired token yields common.ErrTokenExpired; any other failure
// common.ErrInvalidToken.
func ParseToken(tokenString string, secret []byte, now func() time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, common.ErrTokenExpired
	case err != nil, !token.Valid, claims.UserID == "":
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

type ctxKey string

const userKey ctxKey = "user"

func bearerToken(r *http.Request) string {
	h := r.Header.Get(common.AuthorizationHeaderName)
	tok, ok := strings.CutPrefix(h, common.BearerPrefix)
	if !ok {
		return ""
	}
	return strings.TrimSpace(tok)
}

// resolve maps the request's bearer token to its account.
func (s *Server) resolve(r *http.Request) (models.User, error) {
	tok := bearerToken(r)
	if tok == "" {
		return models.User{}, common.ErrInvalidToken
	}
	claims, err := ParseToken(tok, s.cfg.Secret, s.cfg.Now)
	if err != nil {
		return models.User{}, err
	}
	if s.db.isRevoked(claims.ID) {
		return models.User{}, common.ErrInvalidToken
	}
	acc, ok := s.db.account(models.ID(claims.UserID))
	if !ok {
		return models.User{}, common.ErrInvalidToken
	}
	return acc.user, nil
}

// authenticated rejects requests without a valid, unrevoked token.
func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.resolve(r)
		if err != nil {
			msg := "Invalid auth token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "Token has expired"
			}
			writeError(w, http.StatusUnauthorized, msg)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// identified attaches the account when a valid token is present and lets
// anonymous requests through.
func (s *Server) identified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, err := s.resolve(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userKey, u))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := currentUser(r)
		if !ok || !u.IsAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) (models.User, bool) {
	u, ok := r.Context().Value(userKey).(models.User)
	return u, ok
}
