package services

import (
	"context"
	"testing"

	"github.com/FRANCK359/smart-search-ai/internal/client/api"
	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() []models.Favorite {
	return []models.Favorite{
		{ID: "1", Title: "Go", URL: "https://go.dev", Tags: []string{"lang", "google"}, FavType: "text"},
		{ID: "2", Title: "Rust", URL: "https://rust-lang.org", Tags: []string{"lang"}, FavType: "text"},
		{ID: "3", Title: "Cats", URL: "https://cats.example", FavType: "image"},
	}
}

func TestFavorites_LoadOncePerMount(t *testing.T) {
	f := &fakeAPI{favorites: seeded()}
	favs := NewFavorites(f, logging.Nop())
	ctx := context.Background()

	require.NoError(t, favs.Load(ctx))
	require.NoError(t, favs.Load(ctx))
	assert.Equal(t, 1, f.favCalls)

	require.NoError(t, favs.Reload(ctx))
	assert.Equal(t, 2, f.favCalls)

	favs.Reset()
	require.NoError(t, favs.Load(ctx))
	assert.Equal(t, 3, f.favCalls)
}

func TestFavorites_ListAndTags(t *testing.T) {
	favs := NewFavorites(&fakeAPI{favorites: seeded()}, logging.Nop())
	require.NoError(t, favs.Load(context.Background()))

	assert.Len(t, favs.List(AllTags), 3)
	assert.Len(t, favs.List(""), 3)
	assert.Len(t, favs.List("lang"), 2)
	assert.Len(t, favs.List("google"), 1)
	assert.Empty(t, favs.List("missing"))
	assert.Equal(t, []string{"lang", "google"}, favs.Tags())
}

func TestFavorites_ToggleRoundTripRestoresSet(t *testing.T) {
	f := &fakeAPI{favorites: seeded(), addID: "99"}
	favs := NewFavorites(f, logging.Nop())
	ctx := context.Background()
	require.NoError(t, favs.Load(ctx))
	before := favs.List(AllTags)

	r := models.Result{Type: models.SearchNews, Title: "T", URL: "http://x", Snippet: "S"}

	added, err := favs.Toggle(ctx, r)
	require.NoError(t, err)
	assert.True(t, added.Added)
	assert.Equal(t, models.ID("99"), added.Favorite.ID)
	assert.Equal(t, models.NewFavorite{Title: "T", URL: "http://x", Snippet: "S", Type: "news"}, *f.lastAdd)
	assert.True(t, favs.IsFavorite("http://x"))
	assert.Equal(t, StateConfirmed, favs.State("http://x"))

	removed, err := favs.Toggle(ctx, r)
	require.NoError(t, err)
	assert.False(t, removed.Added)
	assert.Equal(t, models.ID("99"), f.lastRemove, "delete uses the id of the local favorite")

	assert.Equal(t, before, favs.List(AllTags))
}

func TestFavorites_ToggleExistingDeletesByLocalID(t *testing.T) {
	f := &fakeAPI{favorites: seeded()}
	favs := NewFavorites(f, logging.Nop())

	res, err := favs.Toggle(context.Background(), models.Result{URL: "https://rust-lang.org", Title: "Rust"})
	require.NoError(t, err)
	assert.False(t, res.Added)
	assert.Equal(t, models.ID("2"), f.lastRemove)
	assert.False(t, favs.IsFavorite("https://rust-lang.org"))
	assert.Equal(t, 1, f.favCalls, "toggle loads the set first")
}

func TestFavorites_RejectedWriteLeavesStateUntouched(t *testing.T) {
	f := &fakeAPI{favorites: seeded(), addErr: &api.ServerError{Status: 500, Message: "no"}}
	favs := NewFavorites(f, logging.Nop())
	ctx := context.Background()
	require.NoError(t, favs.Load(ctx))

	_, err := favs.Toggle(ctx, models.Result{URL: "http://new", Title: "N"})
	assert.ErrorIs(t, err, api.ErrServer)
	assert.False(t, favs.IsFavorite("http://new"))
	assert.Equal(t, StateRolledBack, favs.State("http://new"))
	assert.Len(t, favs.List(AllTags), 3)

	f.removeErr = &api.NetworkError{Op: "DELETE", Err: assert.AnError}
	_, err = favs.Toggle(ctx, models.Result{URL: "https://go.dev"})
	assert.ErrorIs(t, err, api.ErrUnavailable)
	assert.True(t, favs.IsFavorite("https://go.dev"))
	assert.Equal(t, StateRolledBack, favs.State("https://go.dev"))
}

func TestFavorites_PendingRejectsSecondToggle(t *testing.T) {
	favs := NewFavorites(&fakeAPI{}, logging.Nop())
	require.NoError(t, favs.Load(context.Background()))

	favs.mu.Lock()
	require.NoError(t, favs.states.begin("http://x"))
	favs.mu.Unlock()

	_, err := favs.Toggle(context.Background(), models.Result{URL: "http://x"})
	assert.ErrorIs(t, err, ErrPending)
	assert.Equal(t, StatePending, favs.State("http://x"))
}

func TestFavorites_RemoveByID(t *testing.T) {
	f := &fakeAPI{favorites: seeded()}
	favs := NewFavorites(f, logging.Nop())
	ctx := context.Background()
	require.NoError(t, favs.Load(ctx))

	require.NoError(t, favs.Remove(ctx, "3"))
	assert.Equal(t, models.ID("3"), f.lastRemove)
	assert.False(t, favs.IsFavorite("https://cats.example"))
	assert.Len(t, favs.List(AllTags), 2)
}

func TestFavorites_LoadErrorSurfaced(t *testing.T) {
	favs := NewFavorites(&fakeAPI{favoritesErr: &api.AuthError{Status: 401}}, logging.Nop())
	err := favs.Load(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	_, err = favs.Toggle(context.Background(), models.Result{URL: "u"})
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}
