package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
)

func (h *HTTPClient) Stats(ctx context.Context, rng string) (*models.StatsSnapshot, error) {
	var out models.StatsSnapshot
	q := url.Values{"range": {rng}}
	if err := h.do(ctx, call{method: http.MethodGet, path: "/dashboard/stats", query: q, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) SystemStats(ctx context.Context) (*models.SystemStats, error) {
	var out models.SystemStats
	if err := h.do(ctx, call{method: http.MethodGet, path: "/dashboard/system/stats", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) SearchAnalytics(ctx context.Context) (*models.SearchAnalytics, error) {
	var out models.SearchAnalytics
	if err := h.do(ctx, call{method: http.MethodGet, path: "/dashboard/history/analytics", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) FavoritesAnalytics(ctx context.Context) (*models.FavoritesAnalytics, error) {
	var out models.FavoritesAnalytics
	if err := h.do(ctx, call{method: http.MethodGet, path: "/dashboard/favorites/analytics", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) SendContact(ctx context.Context, form models.ContactForm) error {
	return h.do(ctx, call{method: http.MethodPost, path: "/contact/send", body: form})
}

func (h *HTTPClient) Messages(ctx context.Context, page, limit int) (*models.MessagePage, error) {
	q := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	var out models.MessagePage
	if err := h.do(ctx, call{method: http.MethodGet, path: "/contact/messages", query: q, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) Message(ctx context.Context, id models.ID) (*models.ContactMessage, error) {
	var out models.ContactMessage
	if err := h.do(ctx, call{method: http.MethodGet, path: "/contact/messages/" + url.PathEscape(id.String()), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) SetMessageRead(ctx context.Context, id models.ID, isRead bool) error {
	body := map[string]bool{"is_read": isRead}
	return h.do(ctx, call{method: http.MethodPut, path: "/contact/messages/" + url.PathEscape(id.String()), body: body})
}
