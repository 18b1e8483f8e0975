package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

// AllTags is the pseudo-tag that disables tag filtering.
const AllTags = "all"

// Toggle is the confirmed outcome of Favorites.Toggle.
type Toggle struct {
	Added    bool
	Favorite models.Favorite
}

// Favorites mirrors the user's starred results. Identity is the URL, since
// search results carry no favorite id. Local state changes only after the
// server confirms a write.
type Favorites struct {
	api FavoritesAPI
	log logging.Logger
	now func() time.Time

	mu     sync.Mutex
	gen    uint64 // bumped by Reset; results fetched under an older value are dropped
	loaded bool
	items  []models.Favorite
	states tracker[string]
}

func NewFavorites(api FavoritesAPI, log logging.Logger) *Favorites {
	return &Favorites{
		api:    api,
		log:    log.With("service", "favorites"),
		now:    time.Now,
		states: tracker[string]{},
	}
}

// Load fetches the set once; later calls are no-ops until Reload or Reset.
func (f *Favorites) Load(ctx context.Context) error {
	f.mu.Lock()
	loaded := f.loaded
	f.mu.Unlock()
	if loaded {
		return nil
	}
	return f.Reload(ctx)
}

func (f *Favorites) Reload(ctx context.Context) error {
	f.mu.Lock()
	gen := f.gen
	f.mu.Unlock()

	list, err := f.api.Favorites(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return ErrStale
	}
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	f.items = append([]models.Favorite(nil), list...)
	f.loaded = true
	return nil
}

func (f *Favorites) indexLocked(url string) int {
	for i, fav := range f.items {
		if fav.URL == url {
			return i
		}
	}
	return -1
}

// Toggle removes r when its URL is starred and adds it otherwise.
func (f *Favorites) Toggle(ctx context.Context, r models.Result) (Toggle, error) {
	if err := f.Load(ctx); err != nil {
		return Toggle{}, err
	}

	f.mu.Lock()
	if err := f.states.begin(r.URL); err != nil {
		f.mu.Unlock()
		return Toggle{}, err
	}
	gen := f.gen
	idx := f.indexLocked(r.URL)
	var existing models.Favorite
	if idx >= 0 {
		existing = f.items[idx]
	}
	f.mu.Unlock()

	if idx >= 0 {
		err := f.api.RemoveFavorite(ctx, existing.ID)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gen != gen {
			return Toggle{}, ErrStale
		}
		f.states.settle(r.URL, err)
		if err != nil {
			return Toggle{}, fmt.Errorf("remove favorite: %w", err)
		}
		f.removeLocked(func(fav models.Favorite) bool { return fav.URL == r.URL })
		return Toggle{Added: false, Favorite: existing}, nil
	}

	typ := r.Type
	if typ == "" {
		typ = models.SearchText
	}
	id, err := f.api.AddFavorite(ctx, models.NewFavorite{
		Title:   r.Title,
		URL:     r.URL,
		Snippet: r.Snippet,
		Type:    string(typ),
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return Toggle{}, ErrStale
	}
	f.states.settle(r.URL, err)
	if err != nil {
		return Toggle{}, fmt.Errorf("add favorite: %w", err)
	}
	fav := models.Favorite{
		ID:      id,
		Title:   r.Title,
		URL:     r.URL,
		Snippet: r.Snippet,
		FavType: string(typ),
		Date:    f.now().UTC().Format(time.RFC3339),
	}
	f.items = append(f.items, fav)
	return Toggle{Added: true, Favorite: fav}, nil
}

// Remove deletes by server id, as the favorites list does.
func (f *Favorites) Remove(ctx context.Context, id models.ID) error {
	f.mu.Lock()
	gen := f.gen
	url := ""
	for _, fav := range f.items {
		if fav.ID == id {
			url = fav.URL
			break
		}
	}
	if url != "" {
		if err := f.states.begin(url); err != nil {
			f.mu.Unlock()
			return err
		}
	}
	f.mu.Unlock()

	err := f.api.RemoveFavorite(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return ErrStale
	}
	if url != "" {
		f.states.settle(url, err)
	}
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	f.removeLocked(func(fav models.Favorite) bool { return fav.ID == id })
	return nil
}

func (f *Favorites) removeLocked(match func(models.Favorite) bool) {
	kept := f.items[:0]
	for _, fav := range f.items {
		if !match(fav) {
			kept = append(kept, fav)
		}
	}
	f.items = kept
}

func (f *Favorites) IsFavorite(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexLocked(url) >= 0
}

// List returns the favorites carrying tag; "" and AllTags return everything.
func (f *Favorites) List(tag string) []models.Favorite {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Favorite, 0, len(f.items))
	for _, fav := range f.items {
		if tag == "" || tag == AllTags || fav.HasTag(tag) {
			out = append(out, fav)
		}
	}
	return out
}

// Tags derives the tag set from the fetched favorites in first-seen order.
func (f *Favorites) Tags() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := map[string]bool{}
	tags := []string{}
	for _, fav := range f.items {
		for _, t := range fav.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// State reports the write state for url.
func (f *Favorites) State(url string) SyncState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[url]
}

// Reset empties the mirror. Calls still in flight settle as ErrStale and
// leave it empty.
func (f *Favorites) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.items = nil
	f.loaded = false
	f.states = tracker[string]{}
}
