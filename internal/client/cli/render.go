package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/FRANCK359/smart-search-ai/internal/client/api"
	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/client/repositories/metadata"
	"github.com/FRANCK359/smart-search-ai/internal/client/services"
	"github.com/FRANCK359/smart-search-ai/internal/client/validation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("32"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgNotLoggedIn        = "Not logged in"
)

func renderOK(w io.Writer, msg string) {
	fmt.Fprintln(w, okStyle.Render(msg))
}

func renderNoData(w io.Writer, msg string) {
	fmt.Fprintln(w, noDataStyle.Render(msg))
}

// renderError prints err in the form a user should read it. Superseded and
// cancelled work prints nothing.
func renderError(w io.Writer, err error) {
	if err == nil || errors.Is(err, services.ErrStale) {
		return
	}

	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("%s: %s", k, fields[k])))
		}
	case errors.Is(err, services.ErrAdminRequired):
		fmt.Fprintln(w, errorStyle.Render(services.ErrAdminRequired.Error()))
	case errors.Is(err, services.ErrPending):
		fmt.Fprintln(w, errorStyle.Render("A previous change is still being saved"))
	case errors.Is(err, ErrAborted):
		fmt.Fprintln(w, errorStyle.Render("Cancelled"))
	default:
		fmt.Fprintln(w, errorStyle.Render(api.Message(err)))
	}
}

// renderLoginError reports a failed login; any auth rejection reads the same.
func renderLoginError(w io.Writer, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		fmt.Fprintln(w, errorStyle.Render(msgInvalidCredentials))
		return
	}
	renderError(w, err)
}

func renderUser(w io.Writer, u *models.User) {
	if u == nil {
		renderNoData(w, msgNotLoggedIn)
		return
	}
	role := "user"
	if u.IsAdmin {
		role = "admin"
	}
	lines := []string{
		headerStyle.Render(u.Username),
		u.Email,
		metaStyle.Render(fmt.Sprintf("id %s, %s", u.ID, role)),
	}
	if u.APIKey != "" {
		lines = append(lines, "API key: "+u.APIKey)
	}
	fmt.Fprintln(w, cardStyle.Render(strings.Join(lines, "\n")))
}

// renderResults draws one card per result, or the empty state when the set
// has no results.
func renderResults(w io.Writer, set models.ResultSet, starred func(url string) bool) {
	if set.Empty() {
		renderNoData(w, fmt.Sprintf("No results found for %q", set.Request.Query))
		return
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s results for %q", set.Request.Type, set.Request.Query)))
	for i, r := range set.Results {
		renderResult(w, i+1, r, starred != nil && starred(r.URL))
	}
}

func renderResult(w io.Writer, n int, r models.Result, starred bool) {
	title := fmt.Sprintf("%d. %s", n, r.DisplayTitle())
	if starred {
		title += " *"
	}
	lines := []string{headerStyle.Render(title)}
	if r.URL != "" {
		lines = append(lines, urlStyle.Render(r.URL))
	}
	if r.Snippet != "" {
		lines = append(lines, r.Snippet)
	}
	if r.AISummary != "" {
		lines = append(lines, summaryStyle.Render("AI: "+r.AISummary))
	}
	var meta []string
	if len(r.Topics) > 0 {
		meta = append(meta, strings.Join(r.Topics, ", "))
	}
	if r.Source != "" {
		meta = append(meta, r.Source)
	}
	if r.Date != "" {
		meta = append(meta, r.Date)
	}
	if len(meta) > 0 {
		lines = append(lines, metaStyle.Render(strings.Join(meta, " | ")))
	}
	fmt.Fprintln(w, cardStyle.Render(strings.Join(lines, "\n")))
}

func renderNews(w io.Writer, items []models.Result) {
	if len(items) == 0 {
		renderNoData(w, "No news available")
		return
	}
	fmt.Fprintln(w, titleStyle.Render("News"))
	for i, r := range items {
		renderResult(w, i+1, r, false)
	}
}

func renderFavorites(w io.Writer, favs []models.Favorite, tag string) {
	if len(favs) == 0 {
		if tag != "" && tag != services.AllTags {
			renderNoData(w, fmt.Sprintf("No favorites tagged %q", tag))
			return
		}
		renderNoData(w, "No favorites yet")
		return
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Favorites (%d)", len(favs))))
	for _, f := range favs {
		lines := []string{
			headerStyle.Render(fmt.Sprintf("[%s] %s", f.ID, f.Title)),
			urlStyle.Render(f.URL),
		}
		if f.Snippet != "" {
			lines = append(lines, f.Snippet)
		}
		meta := []string{f.FavType}
		if len(f.Tags) > 0 {
			meta = append(meta, "#"+strings.Join(f.Tags, " #"))
		}
		if f.Date != "" {
			meta = append(meta, f.Date)
		}
		lines = append(lines, metaStyle.Render(strings.Join(meta, " | ")))
		fmt.Fprintln(w, cardStyle.Render(strings.Join(lines, "\n")))
	}
}

func renderTags(w io.Writer, tags []string) {
	if len(tags) == 0 {
		renderNoData(w, "No tags")
		return
	}
	fmt.Fprintln(w, strings.Join(tags, "  "))
}

func renderLocal(w io.Writer, entries []metadata.Entry) {
	fmt.Fprintln(w, titleStyle.Render("Local store"))
	if len(entries) == 0 {
		renderNoData(w, "Nothing stored")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%-24s %6d bytes  %s\n", e.Key, e.Size, e.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}

func renderHistory(w io.Writer, entries []models.HistoryEntry, page, pages int, term string) {
	header := fmt.Sprintf("History, page %d of %d", page, pages)
	if term != "" {
		header += fmt.Sprintf(" (matching %q)", term)
	}
	fmt.Fprintln(w, titleStyle.Render(header))
	if len(entries) == 0 {
		renderNoData(w, "No searches recorded")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%-20s %-6s %4d results  %s\n", e.Date, e.SearchType, e.ResultsCount, e.Query)
	}
}

func renderStats(w io.Writer, s *models.StatsSnapshot, rng string) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Activity (%s)", rng)))
	u := s.UserStats
	fmt.Fprintf(w, "Total searches: %d\n", s.TotalSearches())
	if d := u.MostActiveDay; d.Date != "" {
		fmt.Fprintf(w, "Most active day: %s (%d)\n", d.Date, d.Count)
	}

	if len(u.SearchCounts.Dates) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Searches per day"))
		for i, d := range u.SearchCounts.Dates {
			fmt.Fprintf(w, "  %-12s %s %d\n", d, bar(countAt(u.SearchCounts.Counts, i)), countAt(u.SearchCounts.Counts, i))
		}
	}
	if len(u.SearchTypes.Types) > 0 {
		fmt.Fprintln(w, headerStyle.Render("By type"))
		for i, t := range u.SearchTypes.Types {
			fmt.Fprintf(w, "  %-12s %d\n", t, countAt(u.SearchTypes.Counts, i))
		}
	}

	g := s.GlobalStats
	if g == nil {
		return
	}
	lines := []string{
		headerStyle.Render("Platform"),
		fmt.Sprintf("Users: %d (%d new)", g.TotalUsers, g.NewUsers),
		fmt.Sprintf("Searches: %d", g.TotalSearches),
	}
	for i, q := range g.PopularQueries {
		lines = append(lines, fmt.Sprintf("%d. %s (%d)", i+1, q.Query, q.Count))
	}
	fmt.Fprintln(w, cardStyle.Render(strings.Join(lines, "\n")))
}

func countAt(counts []int, i int) int {
	if i < len(counts) {
		return counts[i]
	}
	return 0
}

func bar(n int) string {
	if n > 40 {
		n = 40
	}
	return strings.Repeat("#", n)
}

func renderSearchAnalytics(w io.Writer, a *models.SearchAnalytics) {
	fmt.Fprintln(w, titleStyle.Render("Search analytics"))
	fmt.Fprintf(w, "Total searches: %d   Average results: %.1f\n", a.TotalSearches, a.AverageResults)
	renderBuckets(w, "By type", a.ByType)
	if len(a.TopQueries) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Top queries"))
		for _, q := range a.TopQueries {
			fmt.Fprintf(w, "  %-30s %d\n", q.Query, q.Count)
		}
	}
}

func renderFavoritesAnalytics(w io.Writer, a *models.FavoritesAnalytics) {
	fmt.Fprintln(w, titleStyle.Render("Favorites analytics"))
	fmt.Fprintf(w, "Total favorites: %d\n", a.Total)
	renderBuckets(w, "By type", a.ByType)
	renderBuckets(w, "Top tags", a.TopTags)
	renderBuckets(w, "Top domains", a.TopDomains)
}

func renderSystemStats(w io.Writer, s *models.SystemStats) {
	fmt.Fprintln(w, titleStyle.Render("System"))
	fmt.Fprintf(w, "Users: %d\nSearches: %d\nFavorites: %d\nMessages: %d (%d unread)\n",
		s.TotalUsers, s.TotalSearches, s.TotalFavorites, s.TotalMessages, s.UnreadMessages)
}

func renderBuckets(w io.Writer, title string, buckets []models.LabelCount) {
	if len(buckets) == 0 {
		return
	}
	fmt.Fprintln(w, headerStyle.Render(title))
	for _, b := range buckets {
		fmt.Fprintf(w, "  %-20s %4d %s\n", b.Label, b.Count, bar(b.Count))
	}
}

func renderMessages(w io.Writer, msgs []models.ContactMessage, page, pages, unread int) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Messages, page %d of %d, %d unread", page, pages, unread)))
	if len(msgs) == 0 {
		renderNoData(w, "No messages")
		return
	}
	for _, m := range msgs {
		mark := " "
		if !m.IsRead {
			mark = "*"
		}
		fmt.Fprintf(w, "%s [%s] %-20s %s\n", mark, m.ID, m.Email, m.Subject)
	}
}

func renderMessage(w io.Writer, m models.ContactMessage) {
	status := "unread"
	if m.IsRead {
		status = "read"
	}
	lines := []string{
		headerStyle.Render(m.Subject),
		fmt.Sprintf("From: %s <%s>", m.Name, m.Email),
		metaStyle.Render(fmt.Sprintf("%s, %s", m.CreatedAt, status)),
		"",
		m.Message,
	}
	fmt.Fprintln(w, cardStyle.Render(strings.Join(lines, "\n")))
}
