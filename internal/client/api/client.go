package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FRANCK359/smart-search-ai/internal/common"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
	"github.com/google/uuid"
)

const maxBodySize = 4 << 20

// Timeouts bounds each call class.
type Timeouts struct {
	Auth    time.Duration
	Session time.Duration
	Logout  time.Duration
	Request time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Auth:    5 * time.Second,
		Session: 3 * time.Second,
		Logout:  2 * time.Second,
		Request: 5 * time.Second,
	}
}

type callClass int

const (
	classRequest callClass = iota
	classAuth
	classSession
	classLogout
)

func (t Timeouts) of(c callClass) time.Duration {
	var d time.Duration
	switch c {
	case classAuth:
		d = t.Auth
	case classSession:
		d = t.Session
	case classLogout:
		d = t.Logout
	default:
		d = t.Request
	}
	if d <= 0 {
		return DefaultTimeouts().of(c)
	}
	return d
}

// TokenSource returns the bearer token to send, or "" for none.
type TokenSource func() string

// UnauthorizedHook runs when an authenticated call is rejected with 401/403.
type UnauthorizedHook func(ctx context.Context)

type HTTPClient struct {
	baseURL        string
	http           *http.Client
	token          TokenSource
	timeouts       Timeouts
	onUnauthorized UnauthorizedHook
	log            logging.Logger
}

type Option func(*HTTPClient)

func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

func WithTokenSource(ts TokenSource) Option {
	return func(h *HTTPClient) { h.token = ts }
}

func WithTimeouts(t Timeouts) Option {
	return func(h *HTTPClient) { h.timeouts = t }
}

func WithUnauthorizedHook(fn UnauthorizedHook) Option {
	return func(h *HTTPClient) { h.onUnauthorized = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.log = l }
}

// New returns a client for the API rooted at baseURL (e.g. http://host/api).
func New(baseURL string, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		timeouts: DefaultTimeouts(),
		log:      logging.Nop(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// SetUnauthorizedHook replaces the hook after construction; the session and
// the transport reference each other.
func (h *HTTPClient) SetUnauthorizedHook(fn UnauthorizedHook) {
	h.onUnauthorized = fn
}

// SetTokenSource replaces the token source after construction.
func (h *HTTPClient) SetTokenSource(ts TokenSource) {
	h.token = ts
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	class  callClass
	// public calls never trigger the unauthorized hook.
	public bool
}

func (c call) op() string {
	return c.method + " " + c.path
}

func (h *HTTPClient) do(ctx context.Context, c call) error {
	timeout := h.timeouts.of(c.class)
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqID := uuid.NewString()
	callCtx = logging.WithRequestID(callCtx, reqID)

	req, err := h.newRequest(callCtx, c, reqID)
	if err != nil {
		return err
	}

	started := time.Now()
	resp, err := h.http.Do(req)
	if err != nil {
		return h.mapTransportError(ctx, c, timeout, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return h.mapTransportError(ctx, c, timeout, err)
	}

	h.log.Debug(callCtx, "api call", "op", c.op(), "status", resp.StatusCode, "elapsed", time.Since(started))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		authErr := &AuthError{Status: resp.StatusCode, Message: errorMessage(data)}
		if !c.public && h.onUnauthorized != nil {
			h.onUnauthorized(ctx)
		}
		return authErr
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg := errorMessage(data)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &ServerError{Status: resp.StatusCode, Message: msg}
	}

	if c.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := c.out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, c.out); err != nil {
		return &ServerError{Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

func (h *HTTPClient) newRequest(ctx context.Context, c call, reqID string) (*http.Request, error) {
	u := h.baseURL + c.path
	if len(c.query) > 0 {
		u += "?" + c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", c.op(), err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.op(), err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if h.token != nil {
		if tok := h.token(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}
	return req, nil
}

// mapTransportError classifies a failure that produced no usable response.
// parent is the caller's context, before the per-call deadline was applied.
func (h *HTTPClient) mapTransportError(parent context.Context, c call, timeout time.Duration, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) || parent.Err() != nil || isTimeout(err) {
		return &TimeoutError{Op: c.op(), After: timeout}
	}
	return &NetworkError{Op: c.op(), Err: err}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// errorMessage pulls the human message out of an error payload.
func errorMessage(data []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"error", "message", "detail"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}
