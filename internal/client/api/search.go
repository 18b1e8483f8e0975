package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
)

// Search returns the raw response body; its shape depends on the search type.
func (h *HTTPClient) Search(ctx context.Context, req models.SearchRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := h.do(ctx, call{method: http.MethodPost, path: "/search", body: req, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// NewsFeed is the GET form used by the news page. An empty category is omitted.
func (h *HTTPClient) NewsFeed(ctx context.Context, query, category string, limit int) (json.RawMessage, error) {
	q := url.Values{
		"type":  {string(models.SearchNews)},
		"limit": {strconv.Itoa(limit)},
		"query": {query},
	}
	if category != "" {
		q.Set("category", category)
	}
	var out json.RawMessage
	if err := h.do(ctx, call{method: http.MethodGet, path: "/search", query: q, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HTTPClient) Suggest(ctx context.Context, partial string) ([]string, error) {
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	q := url.Values{"q": {partial}}
	if err := h.do(ctx, call{method: http.MethodGet, path: "/search/suggest", query: q, out: &out}); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// History fetches one page; term is sent as q only when non-empty.
func (h *HTTPClient) History(ctx context.Context, page, limit int, term string) (*models.HistoryPage, error) {
	q := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	if term != "" {
		q.Set("q", term)
	}
	var out models.HistoryPage
	if err := h.do(ctx, call{method: http.MethodGet, path: "/search/history", query: q, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) ClearHistory(ctx context.Context) error {
	return h.do(ctx, call{method: http.MethodDelete, path: "/search/history"})
}

func (h *HTTPClient) Favorites(ctx context.Context) ([]models.Favorite, error) {
	var out struct {
		Favorites []models.Favorite `json:"favorites"`
	}
	if err := h.do(ctx, call{method: http.MethodGet, path: "/search/favorites", out: &out}); err != nil {
		return nil, err
	}
	return out.Favorites, nil
}

// AddFavorite returns the server-assigned id of the new favorite.
func (h *HTTPClient) AddFavorite(ctx context.Context, fav models.NewFavorite) (models.ID, error) {
	var out struct {
		Favorite struct {
			ID models.ID `json:"id"`
		} `json:"favorite"`
		ID models.ID `json:"id"`
	}
	if err := h.do(ctx, call{method: http.MethodPost, path: "/search/favorites", body: fav, out: &out}); err != nil {
		return "", err
	}
	if out.Favorite.ID != "" {
		return out.Favorite.ID, nil
	}
	return out.ID, nil
}

func (h *HTTPClient) RemoveFavorite(ctx context.Context, id models.ID) error {
	q := url.Values{"id": {id.String()}}
	return h.do(ctx, call{method: http.MethodDelete, path: "/search/favorites", query: q})
}
