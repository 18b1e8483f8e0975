package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// decodeExpiry reads the exp claim without verifying the signature; the
// client only needs to know when to stop presenting the token. A zero time
// with ok=true means the token never expires; ok=false means the token is
// malformed.
func decodeExpiry(token string) (exp time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, true
	}
	return claims.ExpiresAt.Time, true
}
