package fakeportal

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
)

const popularLimit = 5

var rangeDays = map[string]int{"week": 7, "month": 30, "year": 365}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	rng := strings.ToLower(r.URL.Query().Get("range"))
	if rng == "" {
		rng = "week"
	}
	days, ok := rangeDays[rng]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid range")
		return
	}

	now := s.cfg.Now().UTC()
	since := startOfDay(now).AddDate(0, 0, -(days - 1))
	snap := models.StatsSnapshot{UserStats: userStats(s.db.searches(u.ID), since, days)}

	if u.IsAdmin {
		all := s.db.searches("")
		total, recent := s.db.countAccounts(since)
		snap.GlobalStats = &models.GlobalStats{
			TotalUsers:     total,
			NewUsers:       recent,
			TotalSearches:  len(all),
			PopularQueries: popular(all, since),
		}
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) systemStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.db.counts())
}

func (s *Server) searchAnalytics(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	recs := s.db.searches(u.ID)

	out := models.SearchAnalytics{TotalSearches: len(recs)}
	byType := map[string]int{}
	results := 0
	for _, rec := range recs {
		byType[rec.entry.SearchType]++
		results += rec.entry.ResultsCount
	}
	if len(recs) > 0 {
		out.AverageResults = float64(results) / float64(len(recs))
	}
	out.ByType = ranked(byType, 0)
	out.TopQueries = popular(recs, time.Time{})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) favoritesAnalytics(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	favs := s.db.listFavorites(u.ID)

	byType, byTag, byDomain := map[string]int{}, map[string]int{}, map[string]int{}
	for _, f := range favs {
		byType[f.FavType]++
		for _, t := range f.Tags {
			byTag[strings.ToLower(t)]++
		}
		if parsed, err := url.Parse(f.URL); err == nil && parsed.Hostname() != "" {
			byDomain[parsed.Hostname()]++
		}
	}
	writeJSON(w, http.StatusOK, models.FavoritesAnalytics{
		Total:      len(favs),
		ByType:     ranked(byType, 0),
		TopTags:    ranked(byTag, popularLimit),
		TopDomains: ranked(byDomain, popularLimit),
	})
}

// ranked orders counts by count then label; limit 0 keeps every bucket.
func ranked(counts map[string]int, limit int) []models.LabelCount {
	out := make([]models.LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, models.LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// userStats buckets recs by day over the days ending today.
func userStats(recs []searchRecord, since time.Time, days int) models.UserStats {
	const layout = "2006-01-02"

	counts := make([]int, days)
	dates := make([]string, days)
	for i := range dates {
		dates[i] = since.AddDate(0, 0, i).Format(layout)
	}
	byType := map[string]int{}
	for _, rec := range recs {
		at := rec.at.UTC()
		if at.Before(since) {
			continue
		}
		if i := int(at.Sub(since) / (24 * time.Hour)); i < days {
			counts[i]++
		}
		byType[rec.entry.SearchType]++
	}

	st := models.UserStats{
		SearchCounts:  models.SearchCounts{Dates: dates, Counts: counts},
		SearchTypes:   models.SearchTypes{Types: []string{}, Counts: []int{}},
		MostActiveDay: models.ActiveDay{},
	}
	for _, t := range []models.SearchType{models.SearchText, models.SearchImage, models.SearchNews} {
		if n := byType[string(t)]; n > 0 {
			st.SearchTypes.Types = append(st.SearchTypes.Types, string(t))
			st.SearchTypes.Counts = append(st.SearchTypes.Counts, n)
		}
	}
	for i, n := range counts {
		if n > st.MostActiveDay.Count {
			st.MostActiveDay = models.ActiveDay{Date: dates[i], Count: n}
		}
	}
	return st
}

func popular(recs []searchRecord, since time.Time) []models.PopularQuery {
	byQuery := map[string]int{}
	for _, rec := range recs {
		if !rec.at.Before(since) {
			byQuery[strings.ToLower(rec.entry.Query)]++
		}
	}
	out := make([]models.PopularQuery, 0, len(byQuery))
	for q, n := range byQuery {
		out = append(out, models.PopularQuery{Query: q, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if len(out) > popularLimit {
		out = out[:popularLimit]
	}
	return out
}
