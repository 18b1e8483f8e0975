package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
)

func (h *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := h.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: creds, out: &out, class: classAuth, public: true})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := h.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: reg, out: &out, class: classAuth, public: true})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := h.do(ctx, call{method: http.MethodGet, path: "/auth/me", out: &out, class: classSession}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) UpdateProfile(ctx context.Context, body models.ProfileUpdateBody) (*models.User, error) {
	var out models.User
	if err := h.do(ctx, call{method: http.MethodPut, path: "/auth/me", body: body, out: &out, class: classAuth}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) RefreshAPIKey(ctx context.Context) (string, error) {
	var out struct {
		APIKey string `json:"api_key"`
	}
	if err := h.do(ctx, call{method: http.MethodPost, path: "/auth/refresh-api-key", out: &out, class: classSession}); err != nil {
		return "", err
	}
	return out.APIKey, nil
}

func (h *HTTPClient) Logout(ctx context.Context) error {
	return h.do(ctx, call{method: http.MethodPost, path: "/auth/logout", class: classLogout, public: true})
}

func (h *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return h.do(ctx, call{method: http.MethodPost, path: "/auth/request-password-reset", body: body, class: classAuth, public: true})
}

func (h *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "new_password": newPassword}
	return h.do(ctx, call{method: http.MethodPost, path: "/auth/reset-password", body: body, class: classAuth, public: true})
}

func (h *HTTPClient) CheckEmail(ctx context.Context, email string) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	q := url.Values{"email": {email}}
	if err := h.do(ctx, call{method: http.MethodGet, path: "/auth/check-email", query: q, out: &out, class: classSession, public: true}); err != nil {
		return false, err
	}
	return out.Available, nil
}
