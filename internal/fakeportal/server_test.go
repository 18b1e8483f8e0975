package fakeportal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FRANCK359/smart-search-ai/internal/client/api"
	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/client/services"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

const adminEmail = "admin@example.com"

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type portal struct {
	clock  *clock
	resets map[string]string
	url    string
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	p := &portal{
		clock:  &clock{now: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)},
		resets: map[string]string{},
	}
	srv := New(Config{
		Secret:      []byte("test-secret"),
		TokenTTL:    time.Hour,
		AdminEmails: []string{adminEmail},
		BcryptCost:  bcrypt.MinCost,
		Now:         p.clock.Now,
		OnPasswordReset: func(email, token string) {
			p.resets[email] = token
		},
	}, logging.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	p.url = ts.URL + "/api"
	return p
}

// client returns an API client whose token is held in *tok.
func (p *portal) client(tok *string) *api.HTTPClient {
	return api.New(p.url, api.WithTokenSource(func() string { return *tok }))
}

func (p *portal) register(t *testing.T, name, email string) (string, models.User) {
	t.Helper()
	var tok string
	resp, err := p.client(&tok).Register(context.Background(), models.Registration{
		Username: name, Email: email, Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken, resp.User
}

func TestAuth_RegisterLoginMeLogout(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()

	tok, u := p.register(t, "ada", "Ada@Example.com")
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, u.APIKey)
	assert.False(t, u.IsAdmin)

	c := p.client(&tok)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	var anon string
	_, err = p.client(&anon).Login(ctx, models.Credentials{Email: "ada@example.com", Password: "wrong!"})
	var ae *api.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Invalid credentials", ae.Message)

	resp, err := p.client(&anon).Login(ctx, models.Credentials{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)

	require.NoError(t, c.Logout(ctx))
	_, err = c.Me(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	// the second token is unaffected by revoking the first
	tok = resp.AccessToken
	_, err = c.Me(ctx)
	assert.NoError(t, err)
}

func TestAuth_DuplicateEmailAndValidation(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	p.register(t, "ada", "ada@example.com")

	var anon string
	c := p.client(&anon)
	_, err := c.Register(ctx, models.Registration{Username: "x", Email: "ADA@example.com", Password: "secret1"})
	var se *api.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.Status)

	_, err = c.Register(ctx, models.Registration{Username: "x", Email: "bad", Password: "1"})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)

	free, err := c.CheckEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, free)
	free, err = c.CheckEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, free)
}

func TestAuth_ExpiredToken(t *testing.T) {
	p := newPortal(t)
	tok, _ := p.register(t, "ada", "ada@example.com")

	p.clock.Advance(2 * time.Hour)
	_, err := p.client(&tok).Me(context.Background())
	var ae *api.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Token has expired", ae.Message)
}

func TestAuth_ProfileAndAPIKey(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	tok, u := p.register(t, "ada", "ada@example.com")
	c := p.client(&tok)

	_, err := c.UpdateProfile(ctx, models.ProfileUpdateBody{
		Username: "ada", Email: "ada@example.com", CurrentPassword: "nope", NewPassword: "newpass1",
	})
	var se *api.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Current password is incorrect", se.Message)

	got, err := c.UpdateProfile(ctx, models.ProfileUpdateBody{
		Username: "lovelace", Email: "lovelace@example.com", CurrentPassword: "secret1", NewPassword: "newpass1",
	})
	require.NoError(t, err)
	assert.Equal(t, "lovelace", got.Username)
	assert.Equal(t, "lovelace@example.com", got.Email)

	var anon string
	_, err = p.client(&anon).Login(ctx, models.Credentials{Email: "lovelace@example.com", Password: "newpass1"})
	require.NoError(t, err)

	key, err := c.RefreshAPIKey(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, u.APIKey, key)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, key, me.APIKey)
}

func TestAuth_PasswordReset(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	p.register(t, "ada", "ada@example.com")

	var anon string
	c := p.client(&anon)
	require.NoError(t, c.RequestPasswordReset(ctx, "nobody@example.com"))
	require.NoError(t, c.RequestPasswordReset(ctx, "ada@example.com"))
	token := p.resets["ada@example.com"]
	require.NotEmpty(t, token)
	assert.Len(t, p.resets, 1)

	require.NoError(t, c.ResetPassword(ctx, token, "fresh-pass"))
	assert.Error(t, c.ResetPassword(ctx, token, "again-pass"), "reset tokens are single use")

	_, err := c.Login(ctx, models.Credentials{Email: "ada@example.com", Password: "fresh-pass"})
	assert.NoError(t, err)
}

func TestSearch_ShapesPerType(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	var anon string
	c := p.client(&anon)

	req := models.SearchRequest{Query: "climate", Type: models.SearchText, Filters: models.DefaultFilters(), Limit: 10}
	raw, err := c.Search(ctx, req)
	require.NoError(t, err)
	text := services.NormalizeResults(models.SearchText, raw)
	require.GreaterOrEqual(t, len(text), 3)
	require.LessOrEqual(t, len(text), 10)
	assert.NotEmpty(t, text[0].AISummary)
	assert.NotEmpty(t, text[0].Topics)

	again, err := c.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, text, services.NormalizeResults(models.SearchText, again), "results are deterministic")

	req.Type = models.SearchImage
	raw, err = c.Search(ctx, req)
	require.NoError(t, err)
	images := services.NormalizeResults(models.SearchImage, raw)
	require.NotEmpty(t, images)
	assert.Equal(t, "View Image", images[1].DisplayTitle())

	req.Type = models.SearchNews
	raw, err = c.Search(ctx, req)
	require.NoError(t, err)
	news := services.NormalizeResults(models.SearchNews, raw)
	require.NotEmpty(t, news)
	assert.NotEmpty(t, news[0].Source)
	assert.NotEmpty(t, news[0].Date)

	raw, err = c.Search(ctx, models.SearchRequest{Query: "nothing", Type: models.SearchText, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, services.NormalizeResults(models.SearchText, raw))
}

func TestSearch_DomainFilter(t *testing.T) {
	p := newPortal(t)
	var anon string
	f := models.DefaultFilters()
	f.Domain = "go.dev"
	raw, err := p.client(&anon).Search(context.Background(), models.SearchRequest{Query: "generics", Type: models.SearchText, Filters: f, Limit: 5})
	require.NoError(t, err)
	for _, r := range services.NormalizeResults(models.SearchText, raw) {
		assert.Contains(t, r.URL, "https://go.dev/")
	}
}

func TestNewsFeed(t *testing.T) {
	p := newPortal(t)
	var anon string
	raw, err := p.client(&anon).NewsFeed(context.Background(), "news", "sport", 12)
	require.NoError(t, err)
	items := services.NormalizeResults(models.SearchNews, raw)
	require.NotEmpty(t, items)
	assert.LessOrEqual(t, len(items), 12)
	assert.Contains(t, items[0].Title, "[sport]")
}

func TestSuggest(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	tok, _ := p.register(t, "ada", "ada@example.com")
	c := p.client(&tok)

	_, err := c.Search(ctx, models.SearchRequest{Query: "climbing gear", Type: models.SearchText, Limit: 5})
	require.NoError(t, err)

	list, err := c.Suggest(ctx, "cli")
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "climbing gear", list[0], "past queries come first")
	assert.LessOrEqual(t, len(list), suggestLimit)

	list, err = c.Suggest(ctx, "zzzz")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHistory_RecordedPagedFilteredCleared(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	tok, _ := p.register(t, "ada", "ada@example.com")
	c := p.client(&tok)

	for _, q := range []string{"alpha", "beta", "alpha two", "gamma", "delta"} {
		_, err := c.Search(ctx, models.SearchRequest{Query: q, Type: models.SearchText, Limit: 5})
		require.NoError(t, err)
		p.clock.Advance(time.Minute)
	}

	page, err := c.History(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.History, 2)
	assert.Equal(t, "delta", page.History[0].Query, "newest first")
	assert.NotZero(t, page.History[0].ResultsCount)

	page, err = c.History(ctx, 1, 10, "ALPHA")
	require.NoError(t, err)
	assert.Len(t, page.History, 2)

	page, err = c.History(ctx, 9, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.History)
	assert.Equal(t, 1, page.Pages)

	require.NoError(t, c.ClearHistory(ctx))
	page, err = c.History(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.History)
}

func TestHistory_RequiresAuth(t *testing.T) {
	p := newPortal(t)
	var anon string
	_, err := p.client(&anon).History(context.Background(), 1, 10, "")
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestFavorites_AddListRemove(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	tok, _ := p.register(t, "ada", "ada@example.com")
	c := p.client(&tok)

	fav := models.NewFavorite{Title: "Go", URL: "https://go.dev/doc", Snippet: "docs", Type: "text"}
	id, err := c.AddFavorite(ctx, fav)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	dup, err := c.AddFavorite(ctx, fav)
	require.NoError(t, err)
	assert.Equal(t, id, dup)

	list, err := c.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"text", "go.dev"}, list[0].Tags)
	assert.Equal(t, "text", list[0].FavType)

	require.NoError(t, c.RemoveFavorite(ctx, id))
	var se *api.ServerError
	require.ErrorAs(t, c.RemoveFavorite(ctx, id), &se)
	assert.Equal(t, http.StatusNotFound, se.Status)

	list, err = c.Favorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStats_UserAndGlobal(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	tok, _ := p.register(t, "ada", "ada@example.com")
	adminTok, admin := p.register(t, "root", adminEmail)
	require.True(t, admin.IsAdmin)

	c := p.client(&tok)
	for _, q := range []string{"one", "two", "one"} {
		_, err := c.Search(ctx, models.SearchRequest{Query: q, Type: models.SearchText, Limit: 5})
		require.NoError(t, err)
	}
	_, err := c.Search(ctx, models.SearchRequest{Query: "pics", Type: models.SearchImage, Limit: 5})
	require.NoError(t, err)

	s, err := c.Stats(ctx, "week")
	require.NoError(t, err)
	assert.Len(t, s.UserStats.SearchCounts.Dates, 7)
	assert.Equal(t, 4, s.TotalSearches())
	assert.Equal(t, []string{"text", "image"}, s.UserStats.SearchTypes.Types)
	assert.Equal(t, []int{3, 1}, s.UserStats.SearchTypes.Counts)
	assert.Equal(t, "2026-05-10", s.UserStats.MostActiveDay.Date)
	assert.Nil(t, s.GlobalStats)

	g, err := p.client(&adminTok).Stats(ctx, "month")
	require.NoError(t, err)
	require.NotNil(t, g.GlobalStats)
	assert.Equal(t, 2, g.GlobalStats.TotalUsers)
	assert.Equal(t, 4, g.GlobalStats.TotalSearches)
	require.NotEmpty(t, g.GlobalStats.PopularQueries)
	assert.Equal(t, models.PopularQuery{Query: "one", Count: 2}, g.GlobalStats.PopularQueries[0])

	var se *api.ServerError
	_, err = c.Stats(ctx, "decade")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
}

func TestContact_AdminInbox(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	userTok, _ := p.register(t, "ada", "ada@example.com")
	adminTok, _ := p.register(t, "root", adminEmail)

	var anon string
	for _, subj := range []string{"first", "second", "third"} {
		require.NoError(t, p.client(&anon).SendContact(ctx, models.ContactForm{
			Name: "Visitor", Email: "v@example.com", Subject: subj, Message: "hello",
		}))
	}

	_, err := p.client(&userTok).Messages(ctx, 1, 10)
	var ae *api.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusForbidden, ae.Status)

	admin := p.client(&adminTok)
	page, err := admin.Messages(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "third", page.Messages[0].Subject)
	assert.False(t, page.Messages[0].IsRead)

	id := page.Messages[0].ID
	require.NoError(t, admin.SetMessageRead(ctx, id, true))
	msg, err := admin.Message(ctx, id)
	require.NoError(t, err)
	assert.True(t, msg.IsRead)

	var se *api.ServerError
	_, err = admin.Message(ctx, "missing")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)

	err = p.client(&anon).SendContact(ctx, models.ContactForm{Name: "x"})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
}

func TestDashboard_Analytics(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	userTok, _ := p.register(t, "ada", "ada@example.com")
	adminTok, _ := p.register(t, "root", adminEmail)
	c := p.client(&userTok)

	for _, req := range []models.SearchRequest{
		{Query: "climbing gear", Type: models.SearchText, Limit: 5},
		{Query: "Climbing gear", Type: models.SearchText, Limit: 5},
		{Query: "rust", Type: models.SearchImage, Limit: 5},
	} {
		_, err := c.Search(ctx, req)
		require.NoError(t, err)
	}
	for _, f := range []models.NewFavorite{
		{Title: "Doc", URL: "https://go.dev/doc", Type: "text"},
		{Title: "Blog", URL: "https://go.dev/blog", Type: "text"},
		{Title: "Pic", URL: "https://wiki.example.org/p.png", Type: "image"},
	} {
		_, err := c.AddFavorite(ctx, f)
		require.NoError(t, err)
	}
	var anon string
	require.NoError(t, p.client(&anon).SendContact(ctx, models.ContactForm{
		Name: "Visitor", Email: "v@example.com", Subject: "hi", Message: "hello",
	}))

	sa, err := c.SearchAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sa.TotalSearches)
	assert.Equal(t, []models.LabelCount{{Label: "text", Count: 2}, {Label: "image", Count: 1}}, sa.ByType)
	require.NotEmpty(t, sa.TopQueries)
	assert.Equal(t, models.PopularQuery{Query: "climbing gear", Count: 2}, sa.TopQueries[0])

	fa, err := c.FavoritesAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, fa.Total)
	assert.Equal(t, []models.LabelCount{{Label: "go.dev", Count: 2}, {Label: "wiki.example.org", Count: 1}}, fa.TopDomains)
	assert.Equal(t, models.LabelCount{Label: "go.dev", Count: 2}, fa.TopTags[0])

	_, err = c.SystemStats(ctx)
	var ae *api.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusForbidden, ae.Status)

	sys, err := p.client(&adminTok).SystemStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SystemStats{
		TotalUsers: 2, TotalSearches: 3, TotalFavorites: 3, TotalMessages: 1, UnreadMessages: 1,
	}, *sys)
}
