package services

import (
	"context"
	"testing"

	"github.com/FRANCK359/smart-search-ai/internal/client/api"
	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/client/validation"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_RangeValidation(t *testing.T) {
	f := &fakeAPI{statsResp: &models.StatsSnapshot{}}
	d := NewDashboard(f, logging.Nop())

	_, err := d.Stats(context.Background(), "day")
	assert.ErrorIs(t, err, validation.ErrInvalid)
	assert.Empty(t, f.lastRange)

	for _, rng := range []string{"week", "Month", " year "} {
		_, err := d.Stats(context.Background(), rng)
		require.NoError(t, err)
	}
	assert.Equal(t, "year", f.lastRange)

	_, err = d.Stats(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "week", f.lastRange)
}

func TestStats_MissingFieldsDefaultToEmpty(t *testing.T) {
	d := NewDashboard(&fakeAPI{statsResp: &models.StatsSnapshot{GlobalStats: &models.GlobalStats{TotalUsers: 3}}}, logging.Nop())

	s, err := d.Stats(context.Background(), RangeWeek)
	require.NoError(t, err)
	assert.NotNil(t, s.UserStats.SearchCounts.Dates)
	assert.NotNil(t, s.UserStats.SearchTypes.Counts)
	assert.NotNil(t, s.GlobalStats.PopularQueries)
	assert.Equal(t, 3, s.GlobalStats.TotalUsers)

	d = NewDashboard(&fakeAPI{}, logging.Nop())
	s, err = d.Stats(context.Background(), RangeMonth)
	require.NoError(t, err)
	assert.Zero(t, s.UserStats.MostActiveDay.Count)
}

func TestSystemStats_AdminOnly(t *testing.T) {
	f := &fakeAPI{systemResp: &models.SystemStats{TotalUsers: 4, UnreadMessages: 1}}
	ctx := context.Background()

	for name, d := range map[string]*Dashboard{
		"no gate":   NewDashboard(f, logging.Nop()),
		"non-admin": NewDashboard(f, logging.Nop(), WithDashboardGate(adminFlag(false))),
	} {
		_, err := d.SystemStats(ctx)
		assert.ErrorIs(t, err, ErrAdminRequired, name)
	}
	assert.Zero(t, f.systemCalls)

	d := NewDashboard(f, logging.Nop(), WithDashboardGate(adminFlag(true)))
	s, err := d.SystemStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalUsers)
	assert.Equal(t, 1, f.systemCalls)
}

func TestAnalytics_MissingFieldsDefaultToEmpty(t *testing.T) {
	d := NewDashboard(&fakeAPI{}, logging.Nop())
	ctx := context.Background()

	sa, err := d.SearchAnalytics(ctx)
	require.NoError(t, err)
	assert.NotNil(t, sa.ByType)
	assert.NotNil(t, sa.TopQueries)

	fa, err := d.FavoritesAnalytics(ctx)
	require.NoError(t, err)
	assert.NotNil(t, fa.ByType)
	assert.NotNil(t, fa.TopTags)
	assert.NotNil(t, fa.TopDomains)
}

func TestAnalytics_ErrorsAreWrapped(t *testing.T) {
	boom := &api.ServerError{Status: 500, Message: "down"}
	d := NewDashboard(&fakeAPI{analyticsErr: boom}, logging.Nop(), WithDashboardGate(adminFlag(true)))
	ctx := context.Background()

	_, err := d.SearchAnalytics(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "load search analytics")
	_, err = d.FavoritesAnalytics(ctx)
	assert.ErrorContains(t, err, "load favorites analytics")
	_, err = d.SystemStats(ctx)
	assert.ErrorContains(t, err, "load system stats")
}

func historyPages() map[int]*models.HistoryPage {
	return map[int]*models.HistoryPage{
		1: {History: []models.HistoryEntry{{ID: "a", Query: "go"}}, Pages: 2},
		2: {History: []models.HistoryEntry{{ID: "b", Query: "rust"}}, Pages: 2},
	}
}

func TestHistoryBrowser_Paging(t *testing.T) {
	f := &fakeAPI{historyResp: historyPages()}
	h := NewHistoryBrowser(f, 10, logging.Nop())
	ctx := context.Background()

	require.NoError(t, h.Load(ctx))
	assert.Equal(t, 1, h.Page())
	assert.Equal(t, 2, h.Pages())

	moved, err := h.Prev(ctx)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = h.Next(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, h.Page())
	assert.Equal(t, "rust", h.Entries()[0].Query)

	moved, err = h.Next(ctx)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Len(t, f.historyCalls, 2)
}

func TestHistoryBrowser_SetTermResetsToFirstPage(t *testing.T) {
	f := &fakeAPI{historyResp: historyPages()}
	h := NewHistoryBrowser(f, 10, logging.Nop())
	ctx := context.Background()

	require.NoError(t, h.Load(ctx))
	_, err := h.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, h.Page())

	require.NoError(t, h.SetTerm(ctx, " go "))
	assert.Equal(t, 1, h.Page())
	assert.Equal(t, "go", h.Term())
	assert.Equal(t, historyCall{page: 1, limit: 10, term: "go"}, f.historyCalls[len(f.historyCalls)-1])
}

func TestHistoryBrowser_PagesDefaultToOne(t *testing.T) {
	f := &fakeAPI{historyResp: map[int]*models.HistoryPage{1: {}}}
	h := NewHistoryBrowser(f, 0, logging.Nop())

	require.NoError(t, h.Load(context.Background()))
	assert.Equal(t, 1, h.Pages())
	assert.NotNil(t, h.Entries())
	assert.Equal(t, DefaultPageSize, f.historyCalls[0].limit)
}

func TestHistoryBrowser_FailedFetchKeepsState(t *testing.T) {
	f := &fakeAPI{historyResp: historyPages()}
	h := NewHistoryBrowser(f, 10, logging.Nop())
	ctx := context.Background()
	require.NoError(t, h.Load(ctx))

	f.historyErr = &api.TimeoutError{Op: "GET /search/history"}
	_, err := h.Next(ctx)
	assert.ErrorIs(t, err, api.ErrTimeout)
	assert.Equal(t, 1, h.Page())
	assert.Equal(t, "go", h.Entries()[0].Query)
}

func TestHistoryBrowser_ClearOnlyAfterConfirmation(t *testing.T) {
	f := &fakeAPI{historyResp: historyPages(), clearErr: &api.ServerError{Status: 500}}
	h := NewHistoryBrowser(f, 10, logging.Nop())
	ctx := context.Background()
	require.NoError(t, h.Load(ctx))

	assert.Error(t, h.Clear(ctx))
	assert.Len(t, h.Entries(), 1)

	f.clearErr = nil
	require.NoError(t, h.Clear(ctx))
	assert.Empty(t, h.Entries())
	assert.Equal(t, 1, h.Pages())
	assert.Equal(t, 2, f.clearCalls)
}
