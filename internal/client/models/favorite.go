package models

type Favorite struct {
	ID      ID       `json:"id"`
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Snippet string   `json:"snippet"`
	Tags    []string `json:"tags"`
	FavType string   `json:"fav_type"`
	Date    string   `json:"date"`
}

// HasTag reports whether the favorite carries tag.
func (f Favorite) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NewFavorite is the POST /search/favorites body.
type NewFavorite struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Type    string `json:"type"`
}
