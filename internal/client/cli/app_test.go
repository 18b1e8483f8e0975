package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FRANCK359/smart-search-ai/internal/client/config"
	"github.com/FRANCK359/smart-search-ai/internal/client/services"
	"github.com/FRANCK359/smart-search-ai/internal/client/session"
	"github.com/FRANCK359/smart-search-ai/internal/client/store"
	"github.com/FRANCK359/smart-search-ai/internal/client/validation"
	"github.com/FRANCK359/smart-search-ai/internal/fakeportal"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

const testAdmin = "admin@example.com"

type testApp struct {
	*App
	buf *bytes.Buffer
}

// newTestApp wires an App against a fresh in-process portal.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	stubTerminal(t, false, nil)

	srv := fakeportal.New(fakeportal.Config{
		Secret:      []byte("cli-test-secret"),
		TokenTTL:    time.Hour,
		AdminEmails: []string{testAdmin},
		BcryptCost:  bcrypt.MinCost,
	}, logging.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = ts.URL + "/api"
	cfg.SuggestDebounce = time.Millisecond

	st, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	sess, err := session.New(context.Background(), st.Tokens())
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	a := newApp(cfg, sess, logging.Nop(), strings.NewReader(""), buf)
	a.store = st
	t.Cleanup(func() { _ = a.Close() })
	return &testApp{App: a, buf: buf}
}

// input replaces what the next prompts will read.
func (ta *testApp) input(lines ...string) {
	ta.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// take returns and clears everything printed so far.
func (ta *testApp) take() string {
	s := ta.buf.String()
	ta.buf.Reset()
	return s
}

func (ta *testApp) register(t *testing.T, name, email string) {
	t.Helper()
	ta.input(name, email, "secret1")
	require.NoError(t, ta.Register(context.Background()))
	require.True(t, ta.isLoggedIn())
	ta.take()
}

func TestApp_LoginInvalidCredentials(t *testing.T) {
	a := newTestApp(t)
	a.register(t, "alice", "alice@example.com")
	require.NoError(t, a.Logout(context.Background()))
	a.take()

	a.input("alice@example.com", "wrong-password")
	require.NoError(t, a.Login(context.Background()))

	assert.Contains(t, a.take(), "Invalid credentials")
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "(guest)", a.getStatus())
}

func TestApp_LoginAndStatus(t *testing.T) {
	a := newTestApp(t)
	a.register(t, "alice", "alice@example.com")
	require.NoError(t, a.Logout(context.Background()))

	a.input("alice@example.com", "secret1")
	require.NoError(t, a.Login(context.Background()))

	assert.Contains(t, a.take(), "Logged in as alice")
	assert.Equal(t, "(alice)", a.getStatus())

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Contains(t, a.take(), "alice@example.com")
}

func TestApp_RegisterTakenEmail(t *testing.T) {
	a := newTestApp(t)
	a.register(t, "alice", "alice@example.com")
	require.NoError(t, a.Logout(context.Background()))

	a.input("alice2", "alice@example.com")
	err := a.Register(context.Background())
	require.Error(t, err)

	renderError(a.buf, err)
	assert.Contains(t, a.take(), "email: email is already registered")
}

func TestApp_SearchEmptyState(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.Search(context.Background(), []string{"nothing"}))
	assert.Contains(t, a.take(), `No results found for "nothing"`)

	require.NoError(t, a.Search(context.Background(), []string{"golang", "tips"}))
	out := a.take()
	assert.Contains(t, out, `text results for "golang tips"`)
	assert.Contains(t, out, "1. ")
	assert.NotContains(t, out, "No results found")
}

func TestApp_GuestCommandsNeedLogin(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	assert.ErrorIs(t, a.Favorite(ctx, []string{"1"}), errLoginRequired)
	assert.ErrorIs(t, a.History(ctx, nil), errLoginRequired)
	assert.ErrorIs(t, a.Stats(ctx, nil), errLoginRequired)
}

func TestApp_GuestReviewNeedsAdmin(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	assert.ErrorIs(t, a.Messages(ctx, nil), services.ErrAdminRequired)
	assert.ErrorIs(t, a.ReadMessage(ctx, []string{"1"}, false), services.ErrAdminRequired)
	assert.ErrorIs(t, a.ReadMessage(ctx, []string{"1"}, true), services.ErrAdminRequired)

	renderError(a.buf, a.exec(ctx, "messages", nil))
	assert.Contains(t, a.take(), "Unauthorized - Admin access required")
}

func TestApp_LocalDataAndForget(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.LocalData(ctx))
	assert.Contains(t, a.take(), "Nothing stored")

	a.register(t, "erin", "erin@example.com")
	token := a.sess.Token()
	require.NotEmpty(t, token)

	require.NoError(t, a.LocalData(ctx))
	out := a.take()
	assert.Contains(t, out, "access_token ")
	assert.Contains(t, out, "access_token_saved_at")
	assert.NotContains(t, out, token)

	a.input("n")
	require.NoError(t, a.Forget(ctx))
	assert.True(t, a.isLoggedIn())

	a.input("y")
	require.NoError(t, a.Forget(ctx))
	assert.Contains(t, a.take(), "Local data removed")
	assert.False(t, a.isLoggedIn())

	entries, err := a.store.Metadata.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApp_FavoriteToggle(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.register(t, "bob", "bob@example.com")

	require.NoError(t, a.Search(ctx, []string{"golang"}))
	a.take()

	require.NoError(t, a.Favorite(ctx, []string{"1"}))
	assert.Contains(t, a.take(), "Added to favorites")

	require.NoError(t, a.Search(ctx, []string{"golang"}))
	assert.Contains(t, a.take(), " *")

	require.NoError(t, a.Favorites(ctx, nil))
	first := a.search.Current().Results[0]
	assert.Contains(t, a.take(), first.URL)

	require.NoError(t, a.Favorite(ctx, []string{"1"}))
	assert.Contains(t, a.take(), "Removed from favorites")

	err := a.Favorite(ctx, []string{"99"})
	assert.Error(t, err)
}

func TestApp_HistoryAndStats(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.register(t, "carol", "carol@example.com")

	require.NoError(t, a.Search(ctx, []string{"kubernetes"}))
	require.NoError(t, a.Search(ctx, []string{"rust"}))
	a.take()

	require.NoError(t, a.History(ctx, nil))
	out := a.take()
	assert.Contains(t, out, "History, page 1 of 1")
	assert.Contains(t, out, "kubernetes")
	assert.Contains(t, out, "rust")

	require.NoError(t, a.Page(ctx, 1))
	assert.Contains(t, a.take(), "No more pages")

	require.NoError(t, a.Stats(ctx, nil))
	assert.NotEmpty(t, a.take())

	assert.Error(t, a.Stats(ctx, []string{"decade"}))

	a.input("y")
	require.NoError(t, a.ClearHistory(ctx))
	assert.Contains(t, a.take(), "History cleared")
}

func TestApp_MessagesNonAdmin(t *testing.T) {
	a := newTestApp(t)
	a.register(t, "dave", "dave@example.com")

	err := a.Messages(context.Background(), nil)
	require.ErrorIs(t, err, services.ErrAdminRequired)

	renderError(a.buf, err)
	assert.Contains(t, a.take(), "Unauthorized - Admin access required")
}

func TestApp_ContactAndAdminReview(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	a.input("Eve", "eve@example.com", "Broken link", "The third result 404s.", "")
	require.NoError(t, a.Contact(ctx))
	assert.Contains(t, a.take(), "Message sent")

	a.register(t, "root", testAdmin)
	assert.Equal(t, "(root, admin)", a.getStatus())

	require.NoError(t, a.Messages(ctx, nil))
	out := a.take()
	assert.Contains(t, out, "Messages, page 1 of 1, 1 unread")
	assert.Contains(t, out, "Broken link")

	msgs := a.review.Messages()
	require.Len(t, msgs, 1)
	id := msgs[0].ID.String()

	require.NoError(t, a.ReadMessage(ctx, []string{id}, false))
	out = a.take()
	assert.Contains(t, out, "The third result 404s.")
	assert.Contains(t, out, "read")
	assert.Equal(t, 0, a.review.Unread())

	require.NoError(t, a.ReadMessage(ctx, []string{id}, true))
	assert.Contains(t, a.take(), "Marked as unread")
	assert.Equal(t, 1, a.review.Unread())
}

func TestApp_LogoutResetsState(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.register(t, "frank", "frank@example.com")

	require.NoError(t, a.Search(ctx, []string{"golang"}))
	require.NoError(t, a.Favorite(ctx, []string{"1"}))
	require.NotEmpty(t, a.favorites.List(services.AllTags))

	require.NoError(t, a.Logout(ctx))
	assert.Contains(t, a.take(), "Logged out")
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.favorites.List(services.AllTags))
}

func TestApp_SwitchingAccountsDropsPreviousState(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.register(t, "alice", "alice@example.com")

	require.NoError(t, a.Search(ctx, []string{"golang"}))
	require.NoError(t, a.Favorite(ctx, []string{"1"}))
	require.NoError(t, a.History(ctx, nil))
	a.take()

	a.register(t, "bob", "bob@example.com")
	assert.Equal(t, "(bob)", a.getStatus())
	assert.Empty(t, a.search.Current().Results)
	assert.Empty(t, a.history.Entries())

	require.NoError(t, a.Favorites(ctx, nil))
	assert.Contains(t, a.take(), "No favorites yet")
}

func TestApp_FiltersParsing(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	err := a.SetFilters(ctx, []string{"date=yesterday-ish", "oops"})
	require.Error(t, err)
	renderError(a.buf, err)
	out := a.take()
	assert.Contains(t, out, "date:")
	assert.Contains(t, out, "oops: expected key=value")

	require.NoError(t, a.SetFilters(ctx, []string{"domain=go.dev"}))
	assert.Equal(t, "go.dev", a.search.Filters().Domain)

	require.NoError(t, a.SetFilters(ctx, []string{"reset"}))
	assert.Empty(t, a.search.Filters().Domain)
}

func TestApp_SuggestGoesThroughDebounce(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.register(t, "fred", "fred@example.com")

	require.NoError(t, a.Search(ctx, []string{"climbing", "gear"}))
	a.take()

	require.NoError(t, a.exec(ctx, "suggest", []string{"cli"}))
	assert.Contains(t, a.take(), `suggestions: "climbing gear"`)

	require.NoError(t, a.Suggest(ctx, []string{"go"}))
	assert.Contains(t, a.take(), "No suggestions")

	require.NoError(t, a.Suggest(ctx, nil))
	assert.Contains(t, a.take(), "Usage: suggest")
}

func TestApp_Analytics(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	assert.ErrorIs(t, a.Analytics(ctx, nil), errLoginRequired)

	a.register(t, "gina", "gina@example.com")
	require.NoError(t, a.Search(ctx, []string{"golang"}))
	require.NoError(t, a.Favorite(ctx, []string{"1"}))
	a.take()

	require.NoError(t, a.Analytics(ctx, nil))
	out := a.take()
	assert.Contains(t, out, "Search analytics")
	assert.Contains(t, out, "Total searches: 1")

	require.NoError(t, a.exec(ctx, "analytics", []string{"favorites"}))
	assert.Contains(t, a.take(), "Total favorites: 1")

	assert.ErrorIs(t, a.Analytics(ctx, []string{"system"}), services.ErrAdminRequired)
	assert.True(t, a.isLoggedIn(), "a refused admin view keeps the session")
	assert.ErrorIs(t, a.Analytics(ctx, []string{"weather"}), validation.ErrInvalid)

	a.register(t, "root", testAdmin)
	require.NoError(t, a.Analytics(ctx, []string{"system"}))
	out = a.take()
	assert.Contains(t, out, "Users: 2")
	assert.Contains(t, out, "Searches: 1")
}
