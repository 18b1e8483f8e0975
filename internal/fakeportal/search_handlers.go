package fakeportal

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
)

const suggestLimit = 5

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !decode(w, r, &req) {
		return
	}
	s.runSearch(w, r, req)
}

// newsFeed is the GET form of search used by the news page.
func (s *Server) newsFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := models.ParseSearchType(q.Get("type"))
	if err != nil {
		t = models.SearchNews
	}
	query := strings.TrimSpace(q.Get("query"))
	if t != models.SearchNews {
		s.runSearch(w, r, models.SearchRequest{Query: query, Type: t, Limit: intParam(r, "limit", 10)})
		return
	}
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}
	n := resultCount(models.SearchRequest{Query: query}, intParam(r, "limit", 12))
	writeJSON(w, http.StatusOK, map[string]any{"news": newsHits(query, q.Get("category"), n, s.cfg.Now())})
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, req models.SearchRequest) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}
	if req.Type == "" {
		req.Type = models.SearchText
	}
	if _, err := models.ParseSearchType(string(req.Type)); err != nil {
		writeError(w, http.StatusBadRequest, "Unknown search type")
		return
	}
	req.Filters = req.Filters.Normalize()

	now := s.cfg.Now()
	body, n := searchResponse(req, now)
	if u, ok := currentUser(r); ok {
		s.db.recordSearch(u.ID, models.HistoryEntry{
			Query:        req.Query,
			SearchType:   string(req.Type),
			Date:         now.UTC().Format(time.RFC3339),
			ResultsCount: n,
		}, now)
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	partial := strings.TrimSpace(r.URL.Query().Get("q"))
	if partial == "" {
		writeJSON(w, http.StatusOK, map[string][]string{"suggestions": {}})
		return
	}
	var past []string
	for _, rec := range s.db.searches("") {
		past = append(past, rec.entry.Query)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions(partial, past, suggestLimit)})
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	term := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	entries := []models.HistoryEntry{}
	for _, rec := range s.db.searches(u.ID) {
		if term == "" || strings.Contains(strings.ToLower(rec.entry.Query), term) {
			entries = append(entries, rec.entry)
		}
	}
	lo, hi, pages := paginate(len(entries), intParam(r, "page", 1), intParam(r, "limit", 10))
	writeJSON(w, http.StatusOK, models.HistoryPage{History: entries[lo:hi], Pages: pages})
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	s.db.clearHistory(u.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "History cleared"})
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	writeJSON(w, http.StatusOK, map[string][]models.Favorite{"favorites": s.db.listFavorites(u.ID)})
}

// addFavorite tags the favorite with its type and host.
func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	var body models.NewFavorite
	if !decode(w, r, &body) {
		return
	}
	body.URL = strings.TrimSpace(body.URL)
	if body.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if body.Type == "" {
		body.Type = string(models.SearchText)
	}

	tags := []string{body.Type}
	if pu, err := url.Parse(body.URL); err == nil && pu.Hostname() != "" {
		tags = append(tags, pu.Hostname())
	}
	fav := s.db.addFavorite(u.ID, models.Favorite{
		Title:   body.Title,
		URL:     body.URL,
		Snippet: body.Snippet,
		Tags:    tags,
		FavType: body.Type,
		Date:    s.cfg.Now().UTC().Format(time.RFC3339),
	})
	writeJSON(w, http.StatusCreated, map[string]models.Favorite{"favorite": fav})
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	id := models.ID(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing favorite id")
		return
	}
	if !s.db.removeFavorite(u.ID, id) {
		writeError(w, http.StatusNotFound, "Favorite not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Favorite removed"})
}
