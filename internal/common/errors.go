package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
