package models

import (
	"fmt"
	"strings"
)

type SearchType string

const (
	SearchText  SearchType = "text"
	SearchImage SearchType = "image"
	SearchNews  SearchType = "news"
)

// ParseSearchType accepts text, image or news (case-insensitive).
func ParseSearchType(s string) (SearchType, error) {
	switch t := SearchType(strings.ToLower(strings.TrimSpace(s))); t {
	case SearchText, SearchImage, SearchNews:
		return t, nil
	default:
		return "", fmt.Errorf("unknown search type %q", s)
	}
}

// ResponseField is the response member the results of t are delivered in.
func (t SearchType) ResponseField() string {
	switch t {
	case SearchText:
		return "results"
	case SearchImage:
		return "images"
	case SearchNews:
		return "news"
	default:
		return ""
	}
}

var (
	DateBuckets  = []string{"any", "day", "week", "month", "year"}
	ContentTypes = []string{"all", "article", "video", "image", "document"}
	Languages    = []string{"fr", "en", "es", "de", "it"}
)

// Filters narrows a search. The zero value is not the default; use DefaultFilters.
type Filters struct {
	Date        string `json:"date"`
	ContentType string `json:"type"`
	Domain      string `json:"domain"`
	Language    string `json:"language"`
}

func DefaultFilters() Filters {
	return Filters{Date: "any", ContentType: "all", Domain: "", Language: "fr"}
}

// Normalize fills empty buckets with defaults and trims the domain.
func (f Filters) Normalize() Filters {
	d := DefaultFilters()
	if f.Date == "" {
		f.Date = d.Date
	}
	if f.ContentType == "" {
		f.ContentType = d.ContentType
	}
	if f.Language == "" {
		f.Language = d.Language
	}
	f.Domain = strings.TrimSpace(f.Domain)
	return f
}

// SearchRequest is one logical search. Identity for de-duplication is
// (Query, Type, Filters); Limit is transport detail.
type SearchRequest struct {
	Query   string     `json:"query"`
	Type    SearchType `json:"type"`
	Filters Filters    `json:"filters"`
	Limit   int        `json:"limit"`
}

// SameAs reports whether r and o denote the same logical search.
func (r SearchRequest) SameAs(o SearchRequest) bool {
	return r.Query == o.Query && r.Type == o.Type && r.Filters == o.Filters
}

// Result is one normalized search hit. Type tells which fields are meaningful:
// text carries Snippet, AISummary and Topics; image carries only URL and an
// optional Title; news carries Snippet, Source, Date and Image.
type Result struct {
	Type      SearchType `json:"-"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Snippet   string     `json:"snippet,omitempty"`
	AISummary string     `json:"ai_summary,omitempty"`
	Topics    []string   `json:"topics,omitempty"`
	Source    string     `json:"source,omitempty"`
	Date      string     `json:"date,omitempty"`
	Image     string     `json:"image,omitempty"`
}

// DisplayTitle falls back to a placeholder for untitled images.
func (r Result) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	if r.Type == SearchImage {
		return "View Image"
	}
	return r.URL
}

// ResultSet is the outcome of one dispatch.
type ResultSet struct {
	Seq     uint64
	Request SearchRequest
	Results []Result
}

// Empty is true iff there is nothing to show.
func (s ResultSet) Empty() bool {
	return len(s.Results) == 0
}
