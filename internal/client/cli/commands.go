package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/client/services"
	"github.com/FRANCK359/smart-search-ai/internal/client/validation"
	"github.com/FRANCK359/smart-search-ai/internal/common"
)

// errLoginRequired is returned by commands that need a session.
var errLoginRequired = errors.New("please log in first")

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return errLoginRequired
	}
	return nil
}

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if validation.ValidEmail(email) {
		if ok, err := a.auth.CheckEmailAvailability(ctx, email); err == nil && !ok {
			return validation.Errors{"email": "email is already registered"}
		}
	}
	password, err := GetPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Register(ctx, models.Registration{Username: username, Email: email, Password: string(password)})
	if err != nil {
		return err
	}
	renderOK(a.out, fmt.Sprintf("Welcome, %s!", u.Username))
	return nil
}

// Login reports a rejected login as invalid credentials and returns nil so
// the REPL does not print the error twice.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Login(ctx, models.Credentials{Email: email, Password: string(password)})
	if err != nil {
		renderLoginError(a.out, err)
		return nil
	}
	renderOK(a.out, fmt.Sprintf("Logged in as %s", u.Username))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	renderOK(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	renderUser(a.out, a.auth.CurrentUser(ctx))
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	cur := a.sess.User()
	if cur == nil {
		cur = &models.User{}
	}

	var p models.ProfileUpdate
	var err error
	if p.Username, err = GetDefaultText(a.reader, "Username", cur.Username, a.out); err != nil {
		return err
	}
	if p.Email, err = GetDefaultText(a.reader, "Email", cur.Email, a.out); err != nil {
		return err
	}
	change, err := GetConfirmation(a.reader, "Change password?", a.out)
	if err != nil {
		return err
	}
	if change {
		fields := []struct {
			dst    *string
			prompt string
		}{
			{&p.CurrentPassword, "Current password"},
			{&p.NewPassword, "New password"},
			{&p.ConfirmPassword, "Confirm new password"},
		}
		for _, f := range fields {
			pw, err := GetPassword(a.reader, f.prompt, a.out)
			if err != nil {
				return err
			}
			*f.dst = string(pw)
			common.WipeByteArray(pw)
		}
	}

	u, err := a.auth.UpdateProfile(ctx, p)
	if err != nil {
		return err
	}
	renderOK(a.out, "Profile updated")
	renderUser(a.out, u)
	return nil
}

func (a *App) APIKey(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	key, err := a.auth.RefreshAPIKey(ctx)
	if err != nil {
		return err
	}
	renderOK(a.out, "New API key: "+key)
	return nil
}

func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.RequestPasswordReset(ctx, email); err != nil {
		return err
	}
	renderOK(a.out, "If the address is registered, a reset link is on its way")
	return nil
}

func (a *App) ResetPassword(ctx context.Context, args []string) error {
	token := strings.Join(args, "")
	var err error
	if token == "" {
		if token, err = GetSimpleText(a.reader, "Enter reset token", a.out); err != nil {
			return err
		}
	}
	pw, err := GetPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	if err := a.auth.ResetPassword(ctx, token, string(pw)); err != nil {
		return err
	}
	renderOK(a.out, "Password changed, you can log in now")
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	rs, err := a.search.Search(ctx, models.SearchRequest{
		Query:   strings.Join(args, " "),
		Filters: a.search.Filters(),
	})
	if err != nil {
		return err
	}
	a.renderCurrent(ctx, rs)
	return nil
}

// renderCurrent draws rs, marking favorites when a session is held.
func (a *App) renderCurrent(ctx context.Context, rs models.ResultSet) {
	var starred func(string) bool
	if a.isLoggedIn() {
		if err := a.favorites.Load(ctx); err == nil {
			starred = a.favorites.IsFavorite
		} else {
			a.log.Warn(ctx, "favorites unavailable", "error", err)
		}
	}
	renderResults(a.out, rs, starred)
}

func (a *App) SetType(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintf(a.out, "Current type: %s\nUsage: type <text|image|news>\n", a.search.Type())
		return nil
	}
	t, err := models.ParseSearchType(args[0])
	if err != nil {
		return validation.Errors{"type": err.Error()}
	}
	rs, dispatched, err := a.search.SetType(ctx, t)
	if err != nil {
		return err
	}
	if dispatched {
		a.renderCurrent(ctx, rs)
		return nil
	}
	renderOK(a.out, "Search type: "+string(t))
	return nil
}

// SetFilters parses key=value pairs (date, type, domain, lang) over the
// active filters. "filter reset" restores the defaults.
func (a *App) SetFilters(ctx context.Context, args []string) error {
	f := a.search.Filters()
	if len(args) == 0 {
		fmt.Fprintf(a.out, "date=%s type=%s domain=%s lang=%s\n", f.Date, f.ContentType, f.Domain, f.Language)
		return nil
	}
	if len(args) == 1 && args[0] == "reset" {
		f = models.DefaultFilters()
	} else {
		var err error
		if f, err = parseFilters(f, args); err != nil {
			return err
		}
	}

	rs, dispatched, err := a.search.SetFilters(ctx, f)
	if err != nil {
		return err
	}
	if dispatched {
		a.renderCurrent(ctx, rs)
		return nil
	}
	renderOK(a.out, "Filters updated")
	return nil
}

func parseFilters(f models.Filters, args []string) (models.Filters, error) {
	errs := validation.Errors{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			errs.Add(arg, "expected key=value")
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(key) {
		case "date":
			f.Date = value
			mergeErr(errs, validation.OneOf("date", value, models.DateBuckets))
		case "type":
			f.ContentType = value
			mergeErr(errs, validation.OneOf("type", value, models.ContentTypes))
		case "domain":
			f.Domain = value
		case "lang", "language":
			f.Language = value
			mergeErr(errs, validation.OneOf("language", value, models.Languages))
		default:
			errs.Add(key, "unknown filter")
		}
	}
	return f, errs.Err()
}

func mergeErr(dst validation.Errors, err error) {
	for k, v := range validation.Fields(err) {
		dst.Add(k, v)
	}
}

// Suggest types partial into the debounced suggester one rune at a time
// and prints the list for the full text once it settles.
func (a *App) Suggest(ctx context.Context, args []string) error {
	runes := []rune(strings.Join(args, " "))
	if len(runes) == 0 {
		fmt.Fprintln(a.out, "Usage: suggest <partial query>")
		return nil
	}
	for i := 1; i < len(runes); i++ {
		a.suggester.Input(string(runes[:i]))
	}
	a.drainSuggestions()
	a.suggester.Input(string(runes))

	wait := time.NewTimer(a.config.SuggestDebounce + a.config.Timeouts.Request)
	defer wait.Stop()
	select {
	case list := <-a.suggested:
		a.printSuggestions(list)
	case <-wait.C:
		renderNoData(a.out, "No suggestions")
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// resultAt returns the n-th (1-based) result of the current set.
func (a *App) resultAt(arg string) (models.Result, error) {
	cur := a.search.Current()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(cur.Results) {
		return models.Result{}, validation.Errors{"result": fmt.Sprintf("pick a number between 1 and %d", len(cur.Results))}
	}
	return cur.Results[n-1], nil
}

func (a *App) Favorite(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: fav <result number>")
		return nil
	}
	r, err := a.resultAt(args[0])
	if err != nil {
		return err
	}
	t, err := a.favorites.Toggle(ctx, r)
	if err != nil {
		return err
	}
	if t.Added {
		renderOK(a.out, "Added to favorites: "+r.DisplayTitle())
	} else {
		renderOK(a.out, "Removed from favorites: "+r.DisplayTitle())
	}
	return nil
}

func (a *App) Unfavorite(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: unfav <favorite id>")
		return nil
	}
	if err := a.favorites.Load(ctx); err != nil {
		return err
	}
	if err := a.favorites.Remove(ctx, models.ID(args[0])); err != nil {
		return err
	}
	renderOK(a.out, "Removed from favorites")
	return nil
}

func (a *App) Favorites(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.favorites.Load(ctx); err != nil {
		return err
	}
	tag := services.AllTags
	if len(args) > 0 {
		tag = args[0]
	}
	renderFavorites(a.out, a.favorites.List(tag), tag)
	return nil
}

func (a *App) Tags(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.favorites.Load(ctx); err != nil {
		return err
	}
	renderTags(a.out, a.favorites.Tags())
	return nil
}

func (a *App) History(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	term := strings.Join(args, " ")
	var err error
	if term != "" || a.history.Term() != "" {
		err = a.history.SetTerm(ctx, term)
	} else {
		err = a.history.Load(ctx)
	}
	if err != nil {
		return err
	}
	a.pager = pagerHistory
	a.renderHistory()
	return nil
}

func (a *App) renderHistory() {
	renderHistory(a.out, a.history.Entries(), a.history.Page(), a.history.Pages(), a.history.Term())
}

func (a *App) ClearHistory(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	ok, err := GetConfirmation(a.reader, "Delete your whole search history?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.history.Clear(ctx); err != nil {
		return err
	}
	renderOK(a.out, "History cleared")
	return nil
}

// Page moves the last listed pager forward (delta > 0) or back.
func (a *App) Page(ctx context.Context, delta int) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	var (
		moved bool
		err   error
	)
	switch a.pager {
	case pagerHistory:
		if delta > 0 {
			moved, err = a.history.Next(ctx)
		} else {
			moved, err = a.history.Prev(ctx)
		}
	case pagerMessages:
		if delta > 0 {
			moved, err = a.review.Next(ctx)
		} else {
			moved, err = a.review.Prev(ctx)
		}
	default:
		fmt.Fprintln(a.out, "Nothing to page through; run history or messages first")
		return nil
	}
	if err != nil {
		return err
	}
	if !moved {
		renderNoData(a.out, "No more pages")
		return nil
	}
	if a.pager == pagerHistory {
		a.renderHistory()
	} else {
		a.renderMessages()
	}
	return nil
}

func (a *App) Stats(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	rng := services.RangeWeek
	if len(args) > 0 {
		rng = args[0]
	}
	s, err := a.dashboard.Stats(ctx, rng)
	if err != nil {
		return err
	}
	renderStats(a.out, s, rng)
	return nil
}

// Analytics shows one breakdown: searches (default), favorites or system.
func (a *App) Analytics(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	kind := "searches"
	if len(args) > 0 {
		kind = strings.ToLower(args[0])
	}
	switch kind {
	case "searches":
		sa, err := a.dashboard.SearchAnalytics(ctx)
		if err != nil {
			return err
		}
		renderSearchAnalytics(a.out, sa)
	case "favorites":
		fa, err := a.dashboard.FavoritesAnalytics(ctx)
		if err != nil {
			return err
		}
		renderFavoritesAnalytics(a.out, fa)
	case "system":
		st, err := a.dashboard.SystemStats(ctx)
		if err != nil {
			return err
		}
		renderSystemStats(a.out, st)
	default:
		return validation.Errors{"analytics": "must be one of searches, favorites, system"}
	}
	return nil
}

// News takes an optional category= argument before the query words.
func (a *App) News(ctx context.Context, args []string) error {
	var category string
	if len(args) > 0 {
		if v, ok := strings.CutPrefix(args[0], "category="); ok {
			category = v
			args = args[1:]
		}
	}
	items, err := a.search.NewsFeed(ctx, strings.Join(args, " "), category)
	if err != nil {
		return err
	}
	renderNews(a.out, items)
	return nil
}

func (a *App) Contact(ctx context.Context) error {
	var f models.ContactForm
	var err error
	def := models.User{}
	if u := a.sess.User(); u != nil {
		def = *u
	}
	if f.Name, err = GetDefaultText(a.reader, "Your name", def.Username, a.out); err != nil {
		return err
	}
	if f.Email, err = GetDefaultText(a.reader, "Your email", def.Email, a.out); err != nil {
		return err
	}
	if f.Subject, err = GetSimpleText(a.reader, "Subject", a.out); err != nil {
		return err
	}
	if f.Message, err = GetMultiline(a.reader, "Message", a.out); err != nil {
		return err
	}
	if err := a.contact.Send(ctx, f); err != nil {
		return err
	}
	renderOK(a.out, "Message sent, thank you!")
	return nil
}

// Messages and ReadMessage leave gating to the review service, so a guest
// sees the same admin-required error as a signed-in user.
func (a *App) Messages(ctx context.Context, args []string) error {
	page := a.review.Page()
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return validation.Errors{"page": "must be a number"}
		}
		page = n
	}
	if err := a.review.Load(ctx, page); err != nil {
		return err
	}
	a.pager = pagerMessages
	a.renderMessages()
	return nil
}

func (a *App) renderMessages() {
	renderMessages(a.out, a.review.Messages(), a.review.Page(), a.review.Pages(), a.review.Unread())
}

// ReadMessage opens a message and marks it read; with unread=true it only
// flips the flag back.
func (a *App) ReadMessage(ctx context.Context, args []string, unread bool) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: read|unread <message id>")
		return nil
	}
	id := models.ID(args[0])

	if unread {
		if err := a.review.MarkRead(ctx, id, false); err != nil {
			return err
		}
		renderOK(a.out, "Marked as unread")
		return nil
	}

	msg, err := a.review.Detail(ctx, id)
	if err != nil {
		return err
	}
	if !msg.IsRead {
		if err := a.review.MarkRead(ctx, id, true); err != nil {
			return err
		}
		msg.IsRead = true
	}
	renderMessage(a.out, msg)
	return nil
}

// LocalData lists what the local store holds. Values are never printed.
func (a *App) LocalData(ctx context.Context) error {
	if a.store == nil {
		renderNoData(a.out, "No local store")
		return nil
	}
	entries, err := a.store.Metadata.List(ctx)
	if err != nil {
		return err
	}
	renderLocal(a.out, entries)
	return nil
}

// Forget ends the session and wipes the local store.
func (a *App) Forget(ctx context.Context) error {
	ok, err := GetConfirmation(a.reader, "Remove all locally stored data?", a.out)
	if err != nil || !ok {
		return err
	}
	if a.sess.HasToken() {
		a.auth.Logout(ctx)
	}
	if a.store != nil {
		if err := a.store.Forget(ctx); err != nil {
			return err
		}
	}
	renderOK(a.out, "Local data removed")
	return nil
}

func joinQuoted(list []string) string {
	q := make([]string, len(list))
	for i, s := range list {
		q[i] = strconv.Quote(s)
	}
	return strings.Join(q, ", ")
}
