package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/client/validation"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

const (
	DefaultSearchLimit = 10
	NewsFeedLimit      = 12
	// minNewsQuery is the shortest query the news feed sends as-is.
	minNewsQuery = 3
)

// Coordinator turns (query, type, filters) into exactly one in-flight search.
// Dispatches are last-dispatched-wins: a dispatch superseded before it
// settles returns ErrStale and leaves Current untouched.
type Coordinator struct {
	api   SearchAPI
	log   logging.Logger
	limit int

	search dispatcher
	news   dispatcher

	mu      sync.Mutex
	query   string
	typ     models.SearchType
	filters models.Filters
	current models.ResultSet
}

type CoordinatorOption func(*Coordinator)

// WithSearchLimit sets the limit sent with every search.
func WithSearchLimit(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.limit = n
		}
	}
}

func NewCoordinator(api SearchAPI, log logging.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		api:     api,
		log:     log.With("service", "search"),
		limit:   DefaultSearchLimit,
		typ:     models.SearchText,
		filters: models.DefaultFilters(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search dispatches req. An empty Type means the active type and a zero
// Limit the configured one; filters are normalized.
func (c *Coordinator) Search(ctx context.Context, req models.SearchRequest) (models.ResultSet, error) {
	req.Query = strings.TrimSpace(req.Query)
	if err := validation.Query(req.Query); err != nil {
		return models.ResultSet{}, err
	}

	c.mu.Lock()
	if req.Type == "" {
		req.Type = c.typ
	}
	c.mu.Unlock()
	if _, err := models.ParseSearchType(string(req.Type)); err != nil {
		return models.ResultSet{}, validation.Errors{"type": err.Error()}
	}
	req.Filters = req.Filters.Normalize()
	if req.Limit <= 0 {
		req.Limit = c.limit
	}

	dctx, seq := c.search.begin(ctx, func() {
		c.mu.Lock()
		c.query, c.typ, c.filters = req.Query, req.Type, req.Filters
		c.mu.Unlock()
	})

	c.log.Debug(ctx, "search dispatched", "seq", seq, "type", string(req.Type))
	raw, err := c.api.Search(dctx, req)

	var (
		rs     models.ResultSet
		outErr error
	)
	settled := c.search.settle(seq, func() {
		rs = models.ResultSet{Seq: seq, Request: req, Results: []models.Result{}}
		if err != nil {
			outErr = fmt.Errorf("search: %w", err)
		} else {
			rs.Results = NormalizeResults(req.Type, raw)
		}
		c.mu.Lock()
		c.current = rs
		c.mu.Unlock()
	})
	if !settled {
		c.log.Debug(ctx, "search response discarded", "seq", seq)
		return models.ResultSet{}, ErrStale
	}
	return rs, outErr
}

// SetFilters records f and re-searches when a query is active and f differs
// from the filters of the last dispatch. The bool reports a dispatch.
func (c *Coordinator) SetFilters(ctx context.Context, f models.Filters) (models.ResultSet, bool, error) {
	f = f.Normalize()

	c.mu.Lock()
	if f == c.filters {
		rs := c.current
		c.mu.Unlock()
		return rs, false, nil
	}
	c.filters = f
	q, t, rs := c.query, c.typ, c.current
	c.mu.Unlock()

	if q == "" {
		return rs, false, nil
	}
	rs, err := c.Search(ctx, models.SearchRequest{Query: q, Type: t, Filters: f})
	return rs, true, err
}

// SetType switches the search type, re-triggering the active query.
func (c *Coordinator) SetType(ctx context.Context, t models.SearchType) (models.ResultSet, bool, error) {
	if _, err := models.ParseSearchType(string(t)); err != nil {
		return models.ResultSet{}, false, validation.Errors{"type": err.Error()}
	}

	c.mu.Lock()
	if t == c.typ {
		rs := c.current
		c.mu.Unlock()
		return rs, false, nil
	}
	c.typ = t
	q, f, rs := c.query, c.filters, c.current
	c.mu.Unlock()

	if q == "" {
		return rs, false, nil
	}
	rs, err := c.Search(ctx, models.SearchRequest{Query: q, Type: t, Filters: f})
	return rs, true, err
}

// Abandon cancels the in-flight search; its outcome becomes stale.
func (c *Coordinator) Abandon() {
	c.search.abandon()
	c.news.abandon()
}

func (c *Coordinator) Current() models.ResultSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Coordinator) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

func (c *Coordinator) Type() models.SearchType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typ
}

func (c *Coordinator) Filters() models.Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Reset drops the active query and results; type and filters return to defaults.
func (c *Coordinator) Reset() {
	c.Abandon()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = ""
	c.typ = models.SearchText
	c.filters = models.DefaultFilters()
	c.current = models.ResultSet{}
}

// NewsFeed loads the news page. Queries shorter than three characters are
// replaced by "news"; category "all" (or empty) is not sent.
func (c *Coordinator) NewsFeed(ctx context.Context, query, category string) ([]models.Result, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minNewsQuery {
		query = "news"
	}
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, "all") {
		category = ""
	}

	dctx, seq := c.news.begin(ctx, nil)
	raw, err := c.api.NewsFeed(dctx, query, category, NewsFeedLimit)

	var (
		out    []models.Result
		outErr error
	)
	if !c.news.settle(seq, func() {
		if err != nil {
			outErr = fmt.Errorf("news feed: %w", err)
			out = []models.Result{}
			return
		}
		out = NormalizeResults(models.SearchNews, raw)
	}) {
		return nil, ErrStale
	}
	return out, outErr
}
