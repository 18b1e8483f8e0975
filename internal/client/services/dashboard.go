package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/client/validation"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

const (
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"

	DefaultPageSize = 10
)

var Ranges = []string{RangeWeek, RangeMonth, RangeYear}

// Dashboard is a read-through view of server-computed statistics.
type Dashboard struct {
	api  DashboardAPI
	gate AdminGate
	log  logging.Logger
}

type DashboardOption func(*Dashboard)

// WithDashboardGate lets SystemStats through for admins. Without a gate
// nobody is treated as admin.
func WithDashboardGate(g AdminGate) DashboardOption {
	return func(d *Dashboard) { d.gate = g }
}

func NewDashboard(api DashboardAPI, log logging.Logger, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{api: api, log: log.With("service", "dashboard")}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Stats fetches the snapshot for rng. Missing sub-fields come back as
// empty slices and zeros.
func (d *Dashboard) Stats(ctx context.Context, rng string) (*models.StatsSnapshot, error) {
	rng = strings.ToLower(strings.TrimSpace(rng))
	if rng == "" {
		rng = RangeWeek
	}
	if err := validation.OneOf("range", rng, Ranges); err != nil {
		return nil, err
	}

	s, err := d.api.Stats(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	if s == nil {
		s = &models.StatsSnapshot{}
	}
	fillStats(s)
	return s, nil
}

// SystemStats is admin-only. Non-admins get ErrAdminRequired without a
// request, so a 403 never reaches the unauthorized hook.
func (d *Dashboard) SystemStats(ctx context.Context) (*models.SystemStats, error) {
	if d.gate == nil || !d.gate.IsAdmin() {
		return nil, ErrAdminRequired
	}
	s, err := d.api.SystemStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load system stats: %w", err)
	}
	if s == nil {
		s = &models.SystemStats{}
	}
	return s, nil
}

func (d *Dashboard) SearchAnalytics(ctx context.Context) (*models.SearchAnalytics, error) {
	a, err := d.api.SearchAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load search analytics: %w", err)
	}
	if a == nil {
		a = &models.SearchAnalytics{}
	}
	a.ByType = nonNil(a.ByType)
	if a.TopQueries == nil {
		a.TopQueries = []models.PopularQuery{}
	}
	return a, nil
}

func (d *Dashboard) FavoritesAnalytics(ctx context.Context) (*models.FavoritesAnalytics, error) {
	a, err := d.api.FavoritesAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load favorites analytics: %w", err)
	}
	if a == nil {
		a = &models.FavoritesAnalytics{}
	}
	a.ByType = nonNil(a.ByType)
	a.TopTags = nonNil(a.TopTags)
	a.TopDomains = nonNil(a.TopDomains)
	return a, nil
}

func nonNil(s []models.LabelCount) []models.LabelCount {
	if s == nil {
		return []models.LabelCount{}
	}
	return s
}

func fillStats(s *models.StatsSnapshot) {
	u := &s.UserStats
	if u.SearchCounts.Dates == nil {
		u.SearchCounts.Dates = []string{}
	}
	if u.SearchCounts.Counts == nil {
		u.SearchCounts.Counts = []int{}
	}
	if u.SearchTypes.Types == nil {
		u.SearchTypes.Types = []string{}
	}
	if u.SearchTypes.Counts == nil {
		u.SearchTypes.Counts = []int{}
	}
	if g := s.GlobalStats; g != nil && g.PopularQueries == nil {
		g.PopularQueries = []models.PopularQuery{}
	}
}

// HistoryBrowser is a paged, filterable view over server-stored history.
// State changes only when a fetch succeeds.
type HistoryBrowser struct {
	api   DashboardAPI
	log   logging.Logger
	limit int

	mu      sync.Mutex
	gen     uint64
	page    int
	pages   int
	term    string
	entries []models.HistoryEntry
}

func NewHistoryBrowser(api DashboardAPI, limit int, log logging.Logger) *HistoryBrowser {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &HistoryBrowser{
		api:   api,
		log:   log.With("service", "history"),
		limit: limit,
		page:  1,
		pages: 1,
	}
}

func (h *HistoryBrowser) fetch(ctx context.Context, page int, term string) error {
	if page < 1 {
		page = 1
	}
	h.mu.Lock()
	gen := h.gen
	h.mu.Unlock()

	p, err := h.api.History(ctx, page, h.limit, term)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen != gen {
		return ErrStale
	}
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	h.page = page
	h.term = term
	h.pages = 1
	h.entries = []models.HistoryEntry{}
	if p != nil {
		if p.Pages > 1 {
			h.pages = p.Pages
		}
		if p.History != nil {
			h.entries = p.History
		}
	}
	return nil
}

// Load fetches the current page with the current term.
func (h *HistoryBrowser) Load(ctx context.Context) error {
	h.mu.Lock()
	page, term := h.page, h.term
	h.mu.Unlock()
	return h.fetch(ctx, page, term)
}

// SetTerm filters by term and goes back to page 1.
func (h *HistoryBrowser) SetTerm(ctx context.Context, term string) error {
	return h.fetch(ctx, 1, strings.TrimSpace(term))
}

// Next moves one page forward; false means already on the last page.
func (h *HistoryBrowser) Next(ctx context.Context) (bool, error) {
	h.mu.Lock()
	page, pages, term := h.page, h.pages, h.term
	h.mu.Unlock()
	if page >= pages {
		return false, nil
	}
	return true, h.fetch(ctx, page+1, term)
}

// Prev moves one page back; false means already on the first page.
func (h *HistoryBrowser) Prev(ctx context.Context) (bool, error) {
	h.mu.Lock()
	page, term := h.page, h.term
	h.mu.Unlock()
	if page <= 1 {
		return false, nil
	}
	return true, h.fetch(ctx, page-1, term)
}

// Clear deletes all history on the server, then empties the local list.
func (h *HistoryBrowser) Clear(ctx context.Context) error {
	if err := h.api.ClearHistory(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = []models.HistoryEntry{}
	h.page = 1
	h.pages = 1
	return nil
}

func (h *HistoryBrowser) Page() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.page
}

func (h *HistoryBrowser) Pages() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pages
}

func (h *HistoryBrowser) Term() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.term
}

func (h *HistoryBrowser) Entries() []models.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *HistoryBrowser) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	h.page, h.pages, h.term = 1, 1, ""
	h.entries = []models.HistoryEntry{}
}
