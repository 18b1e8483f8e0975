package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/FRANCK359/smart-search-ai/internal/client/api"
	"github.com/FRANCK359/smart-search-ai/internal/client/config"
	"github.com/FRANCK359/smart-search-ai/internal/client/services"
	"github.com/FRANCK359/smart-search-ai/internal/client/session"
	"github.com/FRANCK359/smart-search-ai/internal/client/store"
	"github.com/FRANCK359/smart-search-ai/internal/filex"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

// pager names the list that next/prev move through.
type pager string

const (
	pagerHistory  pager = "history"
	pagerMessages pager = "messages"
)

// App holds one client session and every service that hangs off it.
type App struct {
	config *config.Config
	log    logging.Logger
	store  *store.Store

	sess      *session.Session
	client    *api.HTTPClient
	auth      services.AuthService
	search    *services.Coordinator
	suggester *services.Suggester
	favorites *services.Favorites
	dashboard *services.Dashboard
	history   *services.HistoryBrowser
	contact   *services.Contact
	review    *services.MessageReview

	release func()
	pager   pager
	// suggested holds the latest debounced suggestion list.
	suggested chan []string
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the local store under cfg.DataDir and restores the persisted
// session, if any.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	path, err := filex.DataFile(dir, store.FileName)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	sess, err := session.New(ctx, st.Tokens(), session.WithLogger(log))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	a := newApp(cfg, sess, log, os.Stdin, os.Stdout)
	a.store = st
	return a, nil
}

// newApp wires the services over sess without touching the filesystem.
func newApp(cfg *config.Config, sess *session.Session, log logging.Logger, in io.Reader, out io.Writer) *App {
	client := api.New(cfg.APIBaseURL,
		api.WithTokenSource(sess.Token),
		api.WithTimeouts(apiTimeouts(cfg.Timeouts)),
		api.WithLogger(log),
	)

	a := &App{
		config:    cfg,
		log:       log,
		sess:      sess,
		client:    client,
		auth:      services.NewAuthService(client, sess, log),
		search:    services.NewCoordinator(client, log, services.WithSearchLimit(cfg.SearchLimit)),
		favorites: services.NewFavorites(client, log),
		dashboard: services.NewDashboard(client, log, services.WithDashboardGate(sess)),
		history:   services.NewHistoryBrowser(client, cfg.PageSize, log),
		contact:   services.NewContact(client, log),
		review:    services.NewMessageReview(client, sess, cfg.PageSize, log),
		reader:    bufio.NewReader(in),
		out:       out,
		suggested: make(chan []string, 1),
	}
	a.suggester = services.NewSuggester(client, cfg.SuggestDebounce, a.queueSuggestions, log)

	// A rejected token anywhere ends the session like an explicit logout.
	client.SetUnauthorizedHook(func(ctx context.Context) {
		if err := sess.Destroy(ctx); err != nil {
			log.Warn(ctx, "drop rejected session", "error", err)
		}
	})
	a.release = services.ResetOnDestroy(sess, a.search, a.favorites, a.history, a.review)
	return a
}

func apiTimeouts(t config.Timeouts) api.Timeouts {
	return api.Timeouts{
		Auth:    t.Auth,
		Session: t.Session,
		Logout:  t.Logout,
		Request: t.Request,
	}
}

// Close stops background work and closes the local store.
func (a *App) Close() error {
	a.suggester.Close()
	a.search.Abandon()
	if a.release != nil {
		a.release()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.sess.Valid()
}

func (a *App) getStatus() string {
	u := a.sess.User()
	if !a.sess.Valid() {
		return "(guest)"
	}
	if u == nil || u.Username == "" {
		return "(signed in)"
	}
	if u.IsAdmin {
		return fmt.Sprintf("(%s, admin)", u.Username)
	}
	return fmt.Sprintf("(%s)", u.Username)
}

// queueSuggestions runs on the suggester's goroutine. It keeps only the
// newest list so the REPL goroutine does all the printing.
func (a *App) queueSuggestions(list []string) {
	select {
	case <-a.suggested:
	default:
	}
	select {
	case a.suggested <- list:
	default:
	}
}

func (a *App) drainSuggestions() {
	select {
	case <-a.suggested:
	default:
	}
}

func (a *App) printSuggestions(list []string) {
	if len(list) == 0 {
		renderNoData(a.out, "No suggestions")
		return
	}
	fmt.Fprintln(a.out, metaStyle.Render("suggestions: "+joinQuoted(list)))
}
