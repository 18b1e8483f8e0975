package services

import (
	"encoding/json"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
)

type wireResult struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Snippet   string   `json:"snippet"`
	AISummary string   `json:"ai_summary"`
	Topics    []string `json:"topics"`
	Source    string   `json:"source"`
	Date      string   `json:"date"`
	CreatedAt string   `json:"created_at"`
	Image     string   `json:"image"`
}

func (w wireResult) result(t models.SearchType) models.Result {
	r := models.Result{Type: t, Title: w.Title, URL: w.URL}
	switch t {
	case models.SearchText:
		r.Snippet = w.Snippet
		r.AISummary = w.AISummary
		r.Topics = w.Topics
	case models.SearchNews:
		r.Snippet = w.Snippet
		r.Source = w.Source
		r.Date = w.Date
		if r.Date == "" {
			r.Date = w.CreatedAt
		}
		r.Image = w.Image
	}
	return r
}

// NormalizeResults maps a raw search response to an ordered result list.
// The list is read from the member named after t; when it is absent, not an
// array, or t is unknown the list is empty. Elements that cannot be decoded,
// or carry neither a URL nor a title, are skipped. The result is never nil.
func NormalizeResults(t models.SearchType, raw json.RawMessage) []models.Result {
	out := []models.Result{}

	field := t.ResponseField()
	if field == "" || len(raw) == 0 {
		return out
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body[field], &items); err != nil {
		return out
	}

	for _, item := range items {
		var w wireResult
		if err := json.Unmarshal(item, &w); err != nil {
			continue
		}
		if w.URL == "" && w.Title == "" {
			continue
		}
		out = append(out, w.result(t))
	}
	return out
}
