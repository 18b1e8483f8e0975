package services

import (
	"context"
	"encoding/json"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
)

type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, body models.ProfileUpdateBody) (*models.User, error)
	RefreshAPIKey(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	CheckEmail(ctx context.Context, email string) (bool, error)
}

type SearchAPI interface {
	Search(ctx context.Context, req models.SearchRequest) (json.RawMessage, error)
	NewsFeed(ctx context.Context, query, category string, limit int) (json.RawMessage, error)
	Suggest(ctx context.Context, partial string) ([]string, error)
}

type FavoritesAPI interface {
	Favorites(ctx context.Context) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, fav models.NewFavorite) (models.ID, error)
	RemoveFavorite(ctx context.Context, id models.ID) error
}

type DashboardAPI interface {
	Stats(ctx context.Context, rng string) (*models.StatsSnapshot, error)
	SystemStats(ctx context.Context) (*models.SystemStats, error)
	SearchAnalytics(ctx context.Context) (*models.SearchAnalytics, error)
	FavoritesAnalytics(ctx context.Context) (*models.FavoritesAnalytics, error)
	History(ctx context.Context, page, limit int, term string) (*models.HistoryPage, error)
	ClearHistory(ctx context.Context) error
}

type ContactAPI interface {
	SendContact(ctx context.Context, form models.ContactForm) error
	Messages(ctx context.Context, page, limit int) (*models.MessagePage, error)
	Message(ctx context.Context, id models.ID) (*models.ContactMessage, error)
	SetMessageRead(ctx context.Context, id models.ID, isRead bool) error
}
