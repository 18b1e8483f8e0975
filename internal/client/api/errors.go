package api

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrTimeout      = errors.New("request timed out")
	ErrServer       = errors.New("server error")
	ErrUnavailable  = errors.New("server unavailable")
)

// AuthError is a 401 or 403 answer.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unauthorized (%d)", e.Status)
	}
	return fmt.Sprintf("unauthorized (%d): %s", e.Status, e.Message)
}

func (e *AuthError) Is(target error) bool { return target == ErrUnauthorized }

// TimeoutError reports that the client-side deadline of a call elapsed.
type TimeoutError struct {
	Op    string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %s, please try again", e.Op, e.After)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// ServerError is any other non-2xx answer, or a 2xx whose body could not be decoded.
type ServerError struct {
	Status  int
	Message string
	Err     error
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.Status)
	}
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

func (e *ServerError) Is(target error) bool { return target == ErrServer }

func (e *ServerError) Unwrap() error { return e.Err }

// NetworkError means no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Is(target error) bool { return target == ErrUnavailable }

func (e *NetworkError) Unwrap() error { return e.Err }

// Message returns the text a user should see for err.
func Message(err error) string {
	var (
		ae *AuthError
		te *TimeoutError
		se *ServerError
		ne *NetworkError
	)
	switch {
	case errors.As(err, &ae):
		if ae.Message != "" {
			return ae.Message
		}
		return "Unauthorized"
	case errors.As(err, &te):
		return "The request timed out - please try again"
	case errors.As(err, &se):
		if se.Message != "" {
			return se.Message
		}
		return "The server returned an error"
	case errors.As(err, &ne):
		return "The server could not be reached"
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
