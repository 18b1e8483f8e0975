package fakeportal

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
)

// emptyQuery always yields no results.
const emptyQuery = "nothing"

const maxResults = 20

var (
	topicPool  = []string{"science", "technology", "health", "economy", "culture", "sport", "climate", "politics"}
	sourcePool = []string{"Le Monde", "Reuters", "BBC", "El Pais", "Der Spiegel"}
	domainPool = []string{"example.com", "wiki.example.org", "news.example.net", "docs.example.io"}

	suggestionPool = []string{
		"climate change", "climate news", "climate summit",
		"golang tutorial", "golang generics", "google search tips",
		"paris weather", "paris olympics", "python asyncio",
		"space exploration", "spacex launch", "solar energy",
	}
)

type textHit struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Snippet   string   `json:"snippet"`
	AISummary string   `json:"ai_summary"`
	Topics    []string `json:"topics"`
}

type imageHit struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type newsHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Image   string `json:"image,omitempty"`
}

func seed(parts ...string) uint32 {
	h := fnv.New32a()
	for _, p := range parts {
		h.Write([]byte(strings.ToLower(p)))
		h.Write([]byte{0})
	}
	return h.Sum32()
}

func slug(s string) string {
	f := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(f) == 0 {
		return "q"
	}
	return strings.Join(f, "-")
}

// resultCount is stable for a query and filter set, between 3 and limit.
func resultCount(req models.SearchRequest, limit int) int {
	if strings.EqualFold(strings.TrimSpace(req.Query), emptyQuery) {
		return 0
	}
	if limit <= 0 || limit > maxResults {
		limit = maxResults
	}
	if limit <= 3 {
		return limit
	}
	return 3 + int(seed(req.Query, req.Filters.Date, req.Filters.ContentType, req.Filters.Language)%uint32(limit-2))
}

func domainFor(req models.SearchRequest, i int) string {
	if d := strings.TrimSpace(req.Filters.Domain); d != "" {
		return d
	}
	return domainPool[(int(seed(req.Query))+i)%len(domainPool)]
}

// searchResponse builds the body for req: {"results"|"images"|"news": [...]}.
func searchResponse(req models.SearchRequest, now time.Time) (map[string]any, int) {
	n := resultCount(req, req.Limit)
	s := slug(req.Query)
	lang := req.Filters.Language

	switch req.Type {
	case models.SearchImage:
		hits := make([]imageHit, n)
		for i := range hits {
			hits[i] = imageHit{URL: fmt.Sprintf("https://img.%s/%s/%d.jpg", domainFor(req, i), s, i+1)}
			if i%2 == 0 {
				hits[i].Title = fmt.Sprintf("%s #%d", req.Query, i+1)
			}
		}
		return map[string]any{"images": hits}, n

	case models.SearchNews:
		return map[string]any{"news": newsHits(req.Query, "", n, now)}, n

	default:
		hits := make([]textHit, n)
		for i := range hits {
			t := topicPool[(int(seed(req.Query))+i)%len(topicPool)]
			hits[i] = textHit{
				Title:     fmt.Sprintf("%s: result %d", req.Query, i+1),
				URL:       fmt.Sprintf("https://%s/%s/%d", domainFor(req, i), s, i+1),
				Snippet:   fmt.Sprintf("[%s] An overview of %s, part %d.", lang, req.Query, i+1),
				AISummary: fmt.Sprintf("Summary of %q focusing on %s.", req.Query, t),
				Topics:    []string{t},
			}
		}
		return map[string]any{"results": hits}, n
	}
}

func newsHits(query, category string, n int, now time.Time) []newsHit {
	s := slug(query)
	hits := make([]newsHit, n)
	for i := range hits {
		src := sourcePool[(int(seed(query, category))+i)%len(sourcePool)]
		title := fmt.Sprintf("%s: headline %d", query, i+1)
		if category != "" {
			title = fmt.Sprintf("[%s] %s", category, title)
		}
		hits[i] = newsHit{
			Title:   title,
			URL:     fmt.Sprintf("https://news.example.net/%s/%d", s, i+1),
			Snippet: fmt.Sprintf("Latest on %s from %s.", query, src),
			Source:  src,
			Date:    now.Add(-time.Duration(i) * time.Hour).UTC().Format(time.RFC3339),
		}
		if i%3 == 0 {
			hits[i].Image = fmt.Sprintf("https://news.example.net/%s/%d.jpg", s, i+1)
		}
	}
	return hits
}

// suggestions completes partial from past queries first, then the pool.
func suggestions(partial string, past []string, limit int) []string {
	p := strings.ToLower(strings.TrimSpace(partial))
	out := []string{}
	seen := map[string]bool{}
	add := func(s string) {
		k := strings.ToLower(s)
		if len(out) >= limit || seen[k] || !strings.HasPrefix(k, p) {
			return
		}
		seen[k] = true
		out = append(out, s)
	}
	for _, s := range past {
		add(s)
	}
	for _, s := range suggestionPool {
		add(s)
	}
	return out
}
