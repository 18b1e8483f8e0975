package models

type HistoryEntry struct {
	ID           ID     `json:"id"`
	Query        string `json:"query"`
	SearchType   string `json:"search_type"`
	Date         string `json:"date"`
	ResultsCount int    `json:"results_count"`
}

type HistoryPage struct {
	History []HistoryEntry `json:"history"`
	Pages   int            `json:"pages"`
}

type SearchCounts struct {
	Dates  []string `json:"dates"`
	Counts []int    `json:"counts"`
}

type SearchTypes struct {
	Types  []string `json:"types"`
	Counts []int    `json:"counts"`
}

type ActiveDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type UserStats struct {
	SearchCounts  SearchCounts `json:"search_counts"`
	SearchTypes   SearchTypes  `json:"search_types"`
	MostActiveDay ActiveDay    `json:"most_active_day"`
}

type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

type GlobalStats struct {
	TotalUsers     int            `json:"total_users"`
	NewUsers       int            `json:"new_users"`
	TotalSearches  int            `json:"total_searches"`
	PopularQueries []PopularQuery `json:"popular_queries"`
}

// StatsSnapshot is trusted as-is; GlobalStats is present for admins only.
type StatsSnapshot struct {
	UserStats   UserStats    `json:"user_stats"`
	GlobalStats *GlobalStats `json:"global_stats,omitempty"`
}

// TotalSearches sums the per-day counts.
func (s StatsSnapshot) TotalSearches() int {
	n := 0
	for _, c := range s.UserStats.SearchCounts.Counts {
		n += c
	}
	return n
}

// LabelCount is one bucket of an analytics breakdown.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SystemStats is the portal-wide summary shown to admins.
type SystemStats struct {
	TotalUsers     int `json:"total_users"`
	TotalSearches  int `json:"total_searches"`
	TotalFavorites int `json:"total_favorites"`
	TotalMessages  int `json:"total_messages"`
	UnreadMessages int `json:"unread_messages"`
}

// SearchAnalytics breaks the user's whole history down.
type SearchAnalytics struct {
	TotalSearches  int            `json:"total_searches"`
	AverageResults float64        `json:"average_results"`
	ByType         []LabelCount   `json:"by_type"`
	TopQueries     []PopularQuery `json:"top_queries"`
}

// FavoritesAnalytics breaks the user's favorites down.
type FavoritesAnalytics struct {
	Total      int          `json:"total"`
	ByType     []LabelCount `json:"by_type"`
	TopTags    []LabelCount `json:"top_tags"`
	TopDomains []LabelCount `json:"top_domains"`
}
